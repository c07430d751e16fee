package domain

import "strings"

// Platform is the social network a post URL points at.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformYouTube   Platform = "YouTube"
	PlatformFacebook  Platform = "Facebook"
	PlatformTwitter   Platform = "Twitter/X"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformPinterest Platform = "Pinterest"
	PlatformSnapchat  Platform = "Snapchat"
	PlatformOther     Platform = "Other"
)

// platformRules is the detection table, checked in order. First match
// wins, so Instagram outranks TikTok and so on down the list.
var platformRules = []struct {
	platform Platform
	needles  []string
}{
	{PlatformInstagram, []string{"instagram"}},
	{PlatformTikTok, []string{"tiktok"}},
	{PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{PlatformFacebook, []string{"facebook.com", "fb.com"}},
	{PlatformTwitter, []string{"twitter.com", "x.com"}},
	{PlatformLinkedIn, []string{"linkedin"}},
	{PlatformPinterest, []string{"pinterest"}},
	{PlatformSnapchat, []string{"snapchat"}},
}

// DetectPlatform classifies a URL by case-insensitive substring match
// over the whole string, not just the host. It is total: anything
// unrecognized is PlatformOther, it never fails.
func DetectPlatform(url string) Platform {
	lower := strings.ToLower(url)
	for _, rule := range platformRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.platform
			}
		}
	}
	return PlatformOther
}

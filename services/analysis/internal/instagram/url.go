package instagram

import "regexp"

const InvalidURLMessage = "Invalid Instagram URL. Use format: https://instagram.com/p/POST_ID or https://instagram.com/reel/POST_ID"

// postURLPattern matches post and reel links, with or without scheme and www.
var postURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?instagram\.com/(?:p|reel)/([A-Za-z0-9_-]+)`)

func IsValidPostURL(input string) bool {
	return postURLPattern.MatchString(input)
}

// ExtractPostID returns the post id and true, or "" and false when input is not a post URL.
func ExtractPostID(input string) (string, bool) {
	match := postURLPattern.FindStringSubmatch(input)
	if match == nil {
		return "", false
	}
	return match[1], true
}

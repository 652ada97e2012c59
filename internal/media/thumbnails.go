package media

import "fmt"

const PlaceholderThumbnail = "/assets/local.svg"

func Thumbnail(raw string) string {
	switch Classify(raw) {
	case MediaKindYoutube:
		if id, err := youtubeVideoId(raw); err == nil && id != "" {
			return fmt.Sprintf("https://i3.ytimg.com/vi/%s/maxresdefault.jpg", id)
		}
	case MediaKindDrive:
		if normalized := TransformDriveLink(raw); normalized != "" {
			if id := driveFileId(normalized); id != "" {
				return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s", id)
			}
		}
	}

	return PlaceholderThumbnail
}

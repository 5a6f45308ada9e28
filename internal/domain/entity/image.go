package entity

type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageBanner  ImageKind = "banner"
	ImagePost    ImageKind = "post"
	ImageCase    ImageKind = "case"
	ImageChat    ImageKind = "chat"
)

// Folder is the top level of the blob path {entity}/{id}/images/{uuid}.
func (k ImageKind) Folder() string {
	switch k {
	case ImageProfile, ImageBanner:
		return "users"
	case ImagePost:
		return "posts"
	case ImageCase:
		return "cases"
	case ImageChat:
		return "conversations"
	}
	return ""
}

package model

// Flavor tags which entity kind a generic vote/comment/report row points at.
const (
	FlavorFile     = "file"
	FlavorAlbum    = "album"
	FlavorTimeline = "timeline"
	FlavorComment  = "comment"
	FlavorUser     = "user"
)

// ValidFlavor reports whether a flavor string names a known entity kind.
func ValidFlavor(flavor string) bool {
	switch flavor {
	case FlavorFile, FlavorAlbum, FlavorTimeline, FlavorComment, FlavorUser:
		return true
	default:
		return false
	}
}

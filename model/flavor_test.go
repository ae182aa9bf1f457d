package model

import "testing"

func TestValidFlavor(t *testing.T) {
	for _, flavor := range []string{FlavorFile, FlavorAlbum, FlavorTimeline, FlavorComment, FlavorUser} {
		if !ValidFlavor(flavor) {
			t.Errorf("ValidFlavor(%q) = false", flavor)
		}
	}
	for _, flavor := range []string{"", "post", "FILE", "files"} {
		if ValidFlavor(flavor) {
			t.Errorf("ValidFlavor(%q) = true", flavor)
		}
	}
}

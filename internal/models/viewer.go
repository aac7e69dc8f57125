package models

// Viewer is the identity a request is evaluated for. It is either anonymous
// or identified; per-viewer annotations (liked, isFollowedByMe) are false
// for anonymous viewers. Threading Viewer explicitly keeps the optional-auth
// decision out of the repositories.
type Viewer struct {
	id         uint
	identified bool
}

// Anonymous is the viewer for unauthenticated requests.
var Anonymous = Viewer{}

// ViewerFor returns an identified viewer for the given user ID.
func ViewerFor(userID uint) Viewer {
	return Viewer{id: userID, identified: true}
}

// UserID returns the viewer's user ID and whether the viewer is identified.
func (v Viewer) UserID() (uint, bool) {
	return v.id, v.identified
}

// Identified reports whether the viewer is authenticated.
func (v Viewer) Identified() bool {
	return v.identified
}

// Is reports whether the viewer is the given user.
func (v Viewer) Is(userID uint) bool {
	return v.identified && v.id == userID
}

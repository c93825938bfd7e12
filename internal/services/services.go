// package services is the typed client for the hobby hub REST backend
//
// auth, profile, habits, notes, projects, gallery, calendar
package services

// Resource group paths under the API root.
const (
	authGroup     = "/auth"
	profileGroup  = "/profile"
	galleryGroup  = "/gallery"
	calendarGroup = "/calendar"
	notesGroup    = "/notes"
	projectsGroup = "/projects"
	habitsGroup   = "/habits"
)

// Groups lists every resource group name in the order the CLI presents them.
var Groups = []string{"auth", "profile", "habits", "notes", "projects", "gallery", "calendar"}

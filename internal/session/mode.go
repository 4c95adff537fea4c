// pattern: Functional Core

package session

// Mode is the closed set of input modes. Each mode carries only the data it needs.
type Mode interface {
	isMode()
	Label() string
}

// Normal is the default list view.
type Normal struct{}

// Search captures typed characters into the filter query.
type Search struct{}

// Browse navigates the filesystem to pick a directory for Purpose.
type Browse struct {
	Explorer *Explorer
	Purpose  Purpose
}

// DeleteConfirm waits for the user to confirm removing one project.
type DeleteConfirm struct {
	ID   string
	Name string
	Path string
}

func (Normal) isMode()        {}
func (Search) isMode()        {}
func (Browse) isMode()        {}
func (DeleteConfirm) isMode() {}

func (Normal) Label() string        { return "normal" }
func (Search) Label() string        { return "search" }
func (Browse) Label() string        { return "browse" }
func (DeleteConfirm) Label() string { return "delete" }

// Purpose is what a Browse confirmation does with the chosen directory.
type Purpose int

const (
	// PurposeDefault lets the session pick based on the registry mode.
	PurposeDefault Purpose = iota
	// PurposeSetRoot switches the discovery root.
	PurposeSetRoot
	// PurposeAddSingle registers the chosen directory.
	PurposeAddSingle
	// PurposeAddAll registers every subdirectory of the chosen directory.
	PurposeAddAll
)

func (p Purpose) String() string {
	switch p {
	case PurposeSetRoot:
		return "set root"
	case PurposeAddSingle:
		return "add"
	case PurposeAddAll:
		return "add all"
	}
	return "default"
}

package domain

import "strings"

// Folder is a named bucket accepted edges can be filed into.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Reserved bool   `json:"reserved,omitempty"`
}

// The four reserved folders always exist as virtual filters and are
// never created, renamed, or deleted through the registry.
var ReservedFolderNames = []string{"All", "Business", "Friends", "Partner"}

func IsReservedFolderName(name string) bool {
	name = strings.TrimSpace(name)
	for _, r := range ReservedFolderNames {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	return false
}

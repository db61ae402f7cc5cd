package store

import "time"

// fileVersion is written into every project file.
const fileVersion = 1

// projectFile is the persisted shape of a project: a flat list of item
// records keyed by id, with ordered child-id lists carrying the tree
// structure. Flat storage keeps the file diffable and makes a stale
// child reference detectable at load time instead of a silent skip.
type projectFile struct {
	Version int          `yaml:"version"`
	Roots   []string     `yaml:"roots,omitempty"`
	Cursor  string       `yaml:"cursor,omitempty"`
	Context string       `yaml:"context,omitempty"`
	Items   []itemRecord `yaml:"items,omitempty"`
}

// itemRecord is one flattened item.
type itemRecord struct {
	ID          string     `yaml:"id"`
	Kind        string     `yaml:"kind"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Slug        string     `yaml:"slug"`
	Status      string     `yaml:"status"`
	Parent      string     `yaml:"parent,omitempty"`
	Created     time.Time  `yaml:"created"`
	Updated     time.Time  `yaml:"updated"`
	Due         *time.Time `yaml:"due,omitempty"`
	TimeSpent   string     `yaml:"time_spent,omitempty"`
	Children    []string   `yaml:"children,omitempty"`
}

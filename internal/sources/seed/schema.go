package seed

// File formats for the optional bootstrap file. Passwords are plain text in
// the file and hashed on import; the file is meant for dev and first-boot
// provisioning, not as a credential store.

type File struct {
	Users []User `yaml:"users"`
}

type User struct {
	Email     string     `yaml:"email"`
	Password  string     `yaml:"password"`
	Folders   []Folder   `yaml:"folders"`
	Bookmarks []Bookmark `yaml:"bookmarks"`
}

type Folder struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type Bookmark struct {
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Folder      string   `yaml:"folder"` // folder name, resolved at import
	Favorite    bool     `yaml:"favorite"`
}

package github

// User is the public profile returned by GET /users/{login}.
// Nullable text fields decode to "".
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Location    string `json:"location"`
	HTMLURL     string `json:"html_url"`
}

// Repository is one entry of GET /users/{login}/repos.
// UpdatedAt is kept as the raw ISO 8601 string so a malformed value
// degrades to a placeholder instead of failing the whole decode.
type Repository struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	Fork            bool   `json:"fork"`
	UpdatedAt       string `json:"updated_at"`
	HTMLURL         string `json:"html_url"`
}

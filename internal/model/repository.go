package model

import "fmt"

// RepoRef identifies a repository on a hosting platform. Derived once per
// request from the input URL.
type RepoRef struct {
	Host  string `json:"-"`
	Owner string `json:"username"`
	Name  string `json:"name"`
}

func (r RepoRef) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Host, r.Owner, r.Name)
}

// FullName is the "owner/name" path used by hosting APIs.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepoSnapshot is the README text plus recent commit messages, newest first.
type RepoSnapshot struct {
	Readme        string
	RecentCommits []string
}

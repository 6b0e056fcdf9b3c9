package bitbucket

import "time"

// Repository represents a Bitbucket Cloud repository.
type Repository struct {
	UUID        string          `json:"uuid"                  yaml:"uuid"`
	FullName    string          `json:"full_name"             yaml:"full_name"`
	SCM         string          `json:"scm"                   yaml:"scm"`
	IsPrivate   bool            `json:"is_private"            yaml:"is_private"`
	MainBranch  *BranchRef      `json:"mainbranch,omitempty"  yaml:"mainbranch,omitempty"`
	Owner       *Account        `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedOn   time.Time       `json:"created_on"            yaml:"created_on"`
	UpdatedOn   time.Time       `json:"updated_on"            yaml:"updated_on"`
	Links       map[string]Link `json:"links,omitempty"       yaml:"links,omitempty"`
}

// Name returns the repository slug, the part of FullName after the owner.
func (r *Repository) Name() string {
	for i := len(r.FullName) - 1; i >= 0; i-- {
		if r.FullName[i] == '/' {
			return r.FullName[i+1:]
		}
	}

	return r.FullName
}

// Link represents a single hyperlink in a resource.
type Link struct {
	Href string `json:"href"           yaml:"href"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Account represents a user or team account reference.
type Account struct {
	UUID        string `json:"uuid"         yaml:"uuid"`
	Username    string `json:"username"     yaml:"username"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// BranchRef is a lightweight branch reference (e.g. a repository's main
// branch field).
type BranchRef struct {
	Name string `json:"name" yaml:"name"`
}

// Branch represents an entry of /refs/branches.
type Branch struct {
	Name   string     `json:"name"             yaml:"name"`
	Target *CommitRef `json:"target,omitempty" yaml:"target,omitempty"`
}

// CommitRef is a lightweight commit reference carried inside other
// resources.
type CommitRef struct {
	Hash string     `json:"hash"           yaml:"hash"`
	Date *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}

// Commit represents a full commit resource.
type Commit struct {
	Hash    string     `json:"hash"              yaml:"hash"`
	Message string     `json:"message,omitempty" yaml:"message,omitempty"`
	Date    *time.Time `json:"date,omitempty"    yaml:"date,omitempty"`
	Author  *Author    `json:"author,omitempty"  yaml:"author,omitempty"`
}

// Author represents commit authorship.
type Author struct {
	Raw  string   `json:"raw"            yaml:"raw"`
	User *Account `json:"user,omitempty" yaml:"user,omitempty"`
}

// PullRequest represents a pull request resource.
type PullRequest struct {
	ID          int                  `json:"id"                    yaml:"id"`
	Title       string               `json:"title"                 yaml:"title"`
	State       string               `json:"state"                 yaml:"state"`
	Author      *Account             `json:"author,omitempty"      yaml:"author,omitempty"`
	Source      *PullRequestEndpoint `json:"source,omitempty"      yaml:"source,omitempty"`
	Destination *PullRequestEndpoint `json:"destination,omitempty" yaml:"destination,omitempty"`
	CreatedOn   time.Time            `json:"created_on"            yaml:"created_on"`
	UpdatedOn   time.Time            `json:"updated_on"            yaml:"updated_on"`
}

// PullRequestEndpoint describes one side of a pull request.
type PullRequestEndpoint struct {
	Branch     *BranchRef     `json:"branch,omitempty"     yaml:"branch,omitempty"`
	Commit     *CommitRef     `json:"commit,omitempty"     yaml:"commit,omitempty"`
	Repository *RepositoryRef `json:"repository,omitempty" yaml:"repository,omitempty"`
}

// RepositoryRef is a lightweight repository reference.
type RepositoryRef struct {
	UUID     string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	FullName string `json:"full_name"      yaml:"full_name"`
}

// Webhook represents a repository webhook subscription.
type Webhook struct {
	UUID        string   `json:"uuid,omitempty"        yaml:"uuid,omitempty"`
	URL         string   `json:"url"                   yaml:"url"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Active      bool     `json:"active"                yaml:"active"`
	Events      []string `json:"events"                yaml:"events"`
}

// BuildStatus represents a commit build status notification.
type BuildStatus struct {
	Key         string `json:"key"                   yaml:"key"`
	State       string `json:"state"                 yaml:"state"`
	URL         string `json:"url"                   yaml:"url"`
	Name        string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Build status states accepted by Bitbucket Cloud.
const (
	BuildStatusInProgress = "INPROGRESS"
	BuildStatusSuccessful = "SUCCESSFUL"
	BuildStatusFailed     = "FAILED"
	BuildStatusStopped    = "STOPPED"
)

// Team represents a team (workspace) resource.
type Team struct {
	UUID        string          `json:"uuid"            yaml:"uuid"`
	Username    string          `json:"username"        yaml:"username"`
	DisplayName string          `json:"display_name"    yaml:"display_name"`
	Links       map[string]Link `json:"links,omitempty" yaml:"links,omitempty"`
}

// SourceEntry is the raw shape returned by the /src browsing endpoint.
type SourceEntry struct {
	Type   string     `json:"type"             yaml:"type"`
	Path   string     `json:"path"             yaml:"path"`
	Size   int64      `json:"size,omitempty"   yaml:"size,omitempty"`
	Commit *CommitRef `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// IsDirectory reports whether the entry is a directory.
func (e *SourceEntry) IsDirectory() bool {
	return e.Type == "commit_directory"
}

// TreeEntry is a file or directory handle produced by directory browsing,
// resolved relative to the browsed parent.
type TreeEntry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Ref  string `json:"ref"  yaml:"ref"`
	Dir  bool   `json:"dir"  yaml:"dir"`
	Size int64  `json:"size" yaml:"size"`
}

// CloneProtocol selects the form of a repository clone URL.
type CloneProtocol string

// Supported clone protocols.
const (
	CloneProtocolHTTP CloneProtocol = "http"
	CloneProtocolSSH  CloneProtocol = "ssh"
)

// UserRole filters repository listings by the authenticated user's role.
type UserRole string

// Roles understood by the repositories listing endpoint.
const (
	UserRoleOwner       UserRole = "owner"
	UserRoleAdmin       UserRole = "admin"
	UserRoleContributor UserRole = "contributor"
	UserRoleMember      UserRole = "member"
)

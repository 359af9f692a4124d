package devcenter

// BranchCreate is the request body of a branch
// registration.
type BranchCreate struct {
	// ID is the git branch name without its
	// refs/heads/ prefix.
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	// Repo is "owner/repo".
	Repo string `json:"repo"`
}

// Branch is a branch as returned by the Dev Center.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Repo string `json:"repo"`
}

// CommitCreate is the request body of a commit
// registration.
type CommitCreate struct {
	// ID is the commit hash.
	ID string `json:"id"`
	// BranchID is the ID of the owning Branch.
	BranchID string `json:"branchId"`
	// Name is the first line of the commit message.
	Name string `json:"name"`
	// Description is the full commit message.
	Description string `json:"description"`
	// Author is the committer email. Omitted from
	// the payload when unknown.
	Author string `json:"author,omitempty"`
}

// Commit is a commit as returned by the Dev Center.
// Timestamps are kept as sent: the server format is not
// part of the contract.
type Commit struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	Name        string `json:"name"`
	BranchID    string `json:"branchId"`
	Description string `json:"description"`
}

// authResponse is the body of a successful
// authentication.
type authResponse struct {
	Access string `json:"access"`
}

package community

// CreateCommunityRequest carries the form fields of a new post. Uploaded
// files arrive separately as ordered media additions.
type CreateCommunityRequest struct {
	Title    string
	Content  string
	Category string
}

// UpdateCommunityRequest carries an edit: changed fields plus the object
// file names marked for deletion. Nil field pointers mean "leave as is".
type UpdateCommunityRequest struct {
	Title     *string
	Content   *string
	Category  *string
	Deletions []string
}

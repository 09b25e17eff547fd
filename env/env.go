package env

const (
	GithubOwner       = "GITHUB_OWNER"
	GithubAccessToken = "GITHUB_OAUTH"
	GithubURL         = "GITHUB_API_URL"

	MatrixHomeServerURL = "MATRIX_HOMESERVER_URL"
	MatrixHomeServer    = "MATRIX_HOMESERVER"
	MatrixUserId        = "MATRIX_USER_ID"
	MatrixToken         = "MATRIX_TOKEN"
	MatrixRoom          = "MATRIX_ROOM"
)

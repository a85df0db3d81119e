package domain

// Permissions granted by the identity provider to the casting agency roles.
const (
	PermissionGetActors    = "get:actors"
	PermissionPostActors   = "post:actors"
	PermissionPatchActors  = "patch:actors"
	PermissionDeleteActors = "delete:actors"
	PermissionGetMovies    = "get:movies"
	PermissionPostMovies   = "post:movies"
	PermissionPatchMovies  = "patch:movies"
	PermissionDeleteMovies = "delete:movies"
)

// CheckPermission enforces that claims grant the required permission.
func CheckPermission(claims Claims, required string) error {
	if !claims.HasPermissionsClaim() {
		return ErrPermissionsMissing
	}
	if !claims.HasPermission(required) {
		return ErrPermissionNotFound
	}
	return nil
}

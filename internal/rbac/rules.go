package rbac

// Default role policy. Ownership checks (attempt owner, quiz creator, message
// sender) live in the services; this gate is coarse role-based access only.
var RolePermissions = map[string][]string{
	"student": {
		"message:*",
		"quiz:view",
		"attempt:create",
		"attempt:submit",
		"assignment:view",
		"assignment:submit",
		"user:change_password",
	},
	"teacher": {
		"message:*",
		"quiz:*",
		"attempt:*",
		"assignment:*",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}

package auth

// permissions are strings like "history:read", "admin:*"
const (
	PermHistoryRead = "history:read"
	PermAdminAll    = "admin:*"
)

var roleToPerms = map[string][]string{
	"clinician": {PermHistoryRead},
	"admin":     {PermHistoryRead, PermAdminAll},
}

func PermsForRoles(roles []string) map[string]struct{} {
	out := make(map[string]struct{}, 4)
	for _, r := range roles {
		if perms, ok := roleToPerms[r]; ok {
			for _, p := range perms {
				out[p] = struct{}{}
			}
		}
	}
	return out
}

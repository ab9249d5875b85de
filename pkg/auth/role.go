package auth

// Role is the closed set of user roles. Anything else fails ParseRole.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleLibrarian Role = "Librarian"
	RoleUser      Role = "User"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleLibrarian, RoleUser:
		return Role(s), true
	}
	return "", false
}

func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

type Resource string

const (
	ResourceUsers         Resource = "users"
	ResourceAuthors       Resource = "authors"
	ResourceBooks         Resource = "books"
	ResourceBorrowRecords Resource = "borrow-records"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

var grants = map[Role]map[Resource]map[Action]bool{
	RoleAdmin: {
		ResourceUsers:         {ActionRead: true, ActionWrite: true, ActionDelete: true},
		ResourceAuthors:       {ActionRead: true, ActionWrite: true, ActionDelete: true},
		ResourceBooks:         {ActionRead: true, ActionWrite: true, ActionDelete: true},
		ResourceBorrowRecords: {ActionRead: true, ActionWrite: true, ActionDelete: true},
	},
	RoleLibrarian: {
		ResourceUsers:         {ActionRead: true},
		ResourceAuthors:       {ActionRead: true, ActionWrite: true},
		ResourceBooks:         {ActionRead: true, ActionWrite: true},
		ResourceBorrowRecords: {ActionRead: true, ActionWrite: true},
	},
	RoleUser: {
		ResourceAuthors: {ActionRead: true},
		ResourceBooks:   {ActionRead: true},
	},
}

// Can reports whether the role may perform action on resource.
func Can(role Role, resource Resource, action Action) bool {
	return grants[role][resource][action]
}

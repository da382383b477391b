package enums

// Role is the permission role carried on a user and in access tokens.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleStaff        Role = "STAFF"
	RoleStoreManager Role = "STORE_MANAGER"
	RoleCustomer     Role = "CUSTOMER"
)

var roles = []Role{RoleAdmin, RoleStaff, RoleStoreManager, RoleCustomer}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func ParseRole(value string) (Role, error) {
	return parse(value, roles, "role")
}

package role

import (
	"fmt"
	"strings"
)

// Role 表示后台账号的权限级别。
type Role string

const (
	SuperAdmin Role = "SUPER_ADMIN"
	Admin      Role = "ADMIN"
	Editor     Role = "EDITOR"
	Author     Role = "AUTHOR"
	Viewer     Role = "VIEWER"
)

// rank 越大权限越高。
var rank = map[Role]int{
	Viewer:     1,
	Author:     2,
	Editor:     3,
	Admin:      4,
	SuperAdmin: 5,
}

// Parse converts a raw role tag into a Role.
func Parse(raw string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := rank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// Valid reports whether r is one of the five known roles.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return rank[r] >= rank[min]
}

func (r Role) String() string {
	return string(r)
}

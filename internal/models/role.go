package models

// Role is a signal-and-telecom staff tier. Senior to junior:
// sr_dste > dste > adste > sse > je > technician. Admin sits above all.
type Role string

const (
	RoleTechnician Role = "technician"
	RoleJE         Role = "je"
	RoleSSE        Role = "sse"
	RoleADSTE      Role = "adste"
	RoleDSTE       Role = "dste"
	RoleSrDSTE     Role = "sr_dste"
	RoleAdmin      Role = "admin"
)

var roleRanks = map[Role]int{
	RoleTechnician: 1,
	RoleJE:         2,
	RoleSSE:        3,
	RoleADSTE:      4,
	RoleDSTE:       5,
	RoleSrDSTE:     6,
	RoleAdmin:      7,
}

var roleLabels = map[Role]string{
	RoleTechnician: "Technician",
	RoleJE:         "JE",
	RoleSSE:        "SSE",
	RoleADSTE:      "ADSTE",
	RoleDSTE:       "DSTE",
	RoleSrDSTE:     "Sr-DSTE",
	RoleAdmin:      "Admin",
}

// Roles lists every role from junior to senior.
func Roles() []Role {
	return []Role{RoleTechnician, RoleJE, RoleSSE, RoleADSTE, RoleDSTE, RoleSrDSTE, RoleAdmin}
}

// Rank returns 0 for unknown roles.
func (r Role) Rank() int { return roleRanks[r] }

func (r Role) Valid() bool { return r.Rank() > 0 }

func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// SeesAll reports whether the role is exempt from hierarchy filtering.
func (r Role) SeesAll() bool { return r == RoleSrDSTE || r == RoleAdmin }

func (r Role) IsSupervisor() bool { return r.Rank() >= RoleJE.Rank() }

// Outranks reports whether r is strictly senior to other.
func (r Role) Outranks(other Role) bool { return r.Rank() > other.Rank() }

package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
)

// Scope is the set of users whose records a caller may read.
type Scope struct {
	All     bool
	UserIDs []uint
}

func (s Scope) Contains(id uint) bool {
	return s.All || slices.Contains(s.UserIDs, id)
}

// Query fills the ownership part of a repository list query.
func (s Scope) Query(q repository.ListQuery) repository.ListQuery {
	q.Unrestricted = s.All
	q.UserIDs = s.UserIDs
	return q
}

// NarrowScope applies a userId filter. Zero keeps the scope; any other id
// must already be visible.
func NarrowScope(s Scope, userID uint) (Scope, error) {
	if userID == 0 {
		return s, nil
	}
	if !s.Contains(userID) {
		return Scope{}, errs.Forbidden("user is outside your reporting hierarchy")
	}
	return Scope{UserIDs: []uint{userID}}, nil
}

// ListFilter is what list endpoints accept from the query string.
type ListFilter struct {
	UserID uint
	Role   string
	Month  string
	Search string
	Status string
	Page   int
	Limit  int
}

type UserService struct {
	users *repository.UserRepo
	loc   *time.Location
}

// NewUserService resolves hierarchies and list queries. Calendar days and
// months are read in loc; nil means UTC.
func NewUserService(users *repository.UserRepo, loc *time.Location) *UserService {
	if loc == nil {
		loc = time.UTC
	}
	return &UserService{users: users, loc: loc}
}

// Location is the portal's calendar time zone.
func (s *UserService) Location() *time.Location { return s.loc }

// SubordinateIDs walks the reporting tree below rootID level by level.
// rootID itself is never part of the result, even when the data has a cycle.
func (s *UserService) SubordinateIDs(ctx context.Context, rootID uint) ([]uint, error) {
	seen := map[uint]bool{rootID: true}
	var out []uint
	level := []uint{rootID}
	for len(level) > 0 {
		ids, err := s.users.ReportIDs(ctx, level)
		if err != nil {
			return nil, err
		}
		next := level[:0:0]
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			next = append(next, id)
		}
		level = next
	}
	return out, nil
}

// SupervisorChain returns userID's supervisors, direct one first.
func (s *UserService) SupervisorChain(ctx context.Context, userID uint) ([]models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := map[uint]bool{u.ID: true}
	var chain []models.User
	for next := u.SupervisorID; next != nil && !seen[*next]; {
		seen[*next] = true
		sup, err := s.users.FindByID(ctx, *next)
		if errors.Is(err, errs.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		chain = append(chain, *sup)
		next = sup.SupervisorID
	}
	return chain, nil
}

func (s *UserService) ScopeFor(ctx context.Context, claims *auth.Claims) (Scope, error) {
	switch {
	case claims.Role.SeesAll():
		return Scope{All: true}, nil
	case !claims.Role.IsSupervisor():
		return Scope{UserIDs: []uint{claims.UserID}}, nil
	}
	subs, err := s.SubordinateIDs(ctx, claims.UserID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{UserIDs: append([]uint{claims.UserID}, subs...)}, nil
}

// ListQuery resolves a caller's filter into a repository query. The role
// always comes from the token; a differing role parameter is ignored.
func (s *UserService) ListQuery(ctx context.Context, claims *auth.Claims, f ListFilter) (repository.ListQuery, error) {
	if f.Role != "" && models.Role(f.Role) != claims.Role {
		zerolog.Ctx(ctx).Debug().
			Str("param_role", f.Role).
			Str("token_role", string(claims.Role)).
			Msg("ignoring role parameter")
	}
	scope, err := s.ScopeFor(ctx, claims)
	if err != nil {
		return repository.ListQuery{}, err
	}
	scope, err = NarrowScope(scope, f.UserID)
	if err != nil {
		return repository.ListQuery{}, err
	}
	if f.Month != "" {
		if _, _, err := repository.ParseMonth(f.Month, s.loc); err != nil {
			return repository.ListQuery{}, err
		}
	}
	q := scope.Query(repository.ListQuery{
		Month:    f.Month,
		Search:   f.Search,
		Status:   f.Status,
		Page:     f.Page,
		Limit:    f.Limit,
		Location: s.loc,
	})
	q.Normalize()
	return q, nil
}

// CanSee reports whether ownerID's records are visible to the caller.
func (s *UserService) CanSee(ctx context.Context, claims *auth.Claims, ownerID uint) (bool, error) {
	if claims.UserID == ownerID || claims.Role.SeesAll() {
		return true, nil
	}
	if !claims.Role.IsSupervisor() {
		return false, nil
	}
	subs, err := s.SubordinateIDs(ctx, claims.UserID)
	if err != nil {
		return false, err
	}
	return slices.Contains(subs, ownerID), nil
}

// IsStrictSubordinate reports whether userID sits anywhere below the caller.
func (s *UserService) IsStrictSubordinate(ctx context.Context, claims *auth.Claims, userID uint) (bool, error) {
	if claims.UserID == userID {
		return false, nil
	}
	subs, err := s.SubordinateIDs(ctx, claims.UserID)
	if err != nil {
		return false, err
	}
	return slices.Contains(subs, userID), nil
}

func (s *UserService) List(ctx context.Context, claims *auth.Claims, f ListFilter) (models.Page[models.UserResponse], error) {
	q, err := s.ListQuery(ctx, claims, ListFilter{UserID: f.UserID, Search: f.Search, Page: f.Page, Limit: f.Limit})
	if err != nil {
		return models.Page[models.UserResponse]{}, err
	}
	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return models.Page[models.UserResponse]{}, err
	}
	return models.NewPage(toResponses(users), total, q.Page, q.Limit), nil
}

func (s *UserService) Get(ctx context.Context, claims *auth.Claims, id uint) (*models.UserResponse, error) {
	ok, err := s.CanSee(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Forbidden("user is outside your reporting hierarchy")
	}
	resp := u.ToResponse()
	return &resp, nil
}

// UserUpdate carries optional profile changes. Role, supervisor and active
// may only be changed by an admin.
type UserUpdate struct {
	Name         *string      `json:"name"`
	Phone        *string      `json:"phone"`
	Designation  *string      `json:"designation"`
	Station      *string      `json:"station"`
	Section      *string      `json:"section"`
	Password     *string      `json:"password"`
	Role         *models.Role `json:"role"`
	SupervisorID *uint        `json:"supervisorId"`
	Active       *bool        `json:"active"`
}

func (s *UserService) Update(ctx context.Context, claims *auth.Claims, id uint, in UserUpdate) (*models.UserResponse, error) {
	isAdmin := claims.Role == models.RoleAdmin
	if claims.UserID != id && !isAdmin {
		return nil, errs.Forbidden("you can only edit your own profile")
	}
	if !isAdmin && (in.Role != nil || in.SupervisorID != nil || in.Active != nil) {
		return nil, errs.Forbidden("only an admin can change role, supervisor or active")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, errs.Invalid("name cannot be empty")
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	setIf(&u.Phone, in.Phone)
	setIf(&u.Designation, in.Designation)
	setIf(&u.Station, in.Station)
	setIf(&u.Section, in.Section)
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, errs.Invalidf("password must be at least %d characters", minPasswordLen)
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, errs.Invalidf("unknown role %q", *in.Role)
		}
		u.Role = *in.Role
	}
	if in.SupervisorID != nil {
		if *in.SupervisorID == 0 {
			u.SupervisorID = nil
		} else {
			u.SupervisorID = in.SupervisorID
		}
	}
	if u.SupervisorID != nil {
		if err := s.checkSupervisor(ctx, u); err != nil {
			return nil, err
		}
	}
	if in.Active != nil {
		u.Active = *in.Active
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	return &resp, nil
}

// checkSupervisor verifies u's supervisor exists, outranks u and is not
// below u in the tree.
func (s *UserService) checkSupervisor(ctx context.Context, u *models.User) error {
	if u.ID != 0 && *u.SupervisorID == u.ID {
		return errs.Invalid("a user cannot supervise themselves")
	}
	sup, err := s.users.FindByID(ctx, *u.SupervisorID)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Invalid("supervisor does not exist")
	}
	if err != nil {
		return err
	}
	if !sup.Role.Outranks(u.Role) {
		return errs.Invalidf("a %s cannot report to a %s", u.Role.Label(), sup.Role.Label())
	}
	if u.ID == 0 {
		return nil
	}
	below, err := s.SubordinateIDs(ctx, u.ID)
	if err != nil {
		return err
	}
	if slices.Contains(below, sup.ID) {
		return errs.Invalid("supervisor reports to this user")
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, claims *auth.Claims, id uint) error {
	if claims.Role != models.RoleAdmin {
		return errs.Forbidden("only an admin can delete users")
	}
	if claims.UserID == id {
		return errs.Invalid("you cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

// SupervisorOptions lists active users who may supervise a new user of role.
func (s *UserService) SupervisorOptions(ctx context.Context, role models.Role) ([]models.SupervisorOption, error) {
	if !role.Valid() || role == models.RoleAdmin {
		return nil, errs.Invalidf("unknown role %q", role)
	}
	var senior []models.Role
	for _, r := range models.Roles() {
		if r.Outranks(role) && r != models.RoleAdmin {
			senior = append(senior, r)
		}
	}
	users, err := s.users.FindActiveByRoles(ctx, senior)
	if err != nil {
		return nil, err
	}
	out := make([]models.SupervisorOption, 0, len(users))
	for _, u := range users {
		out = append(out, models.SupervisorOption{
			ID:        u.ID,
			Name:      u.Name,
			Role:      u.Role,
			RoleLabel: u.Role.Label(),
			Station:   u.Station,
		})
	}
	// Closest rank first.
	slices.SortStableFunc(out, func(a, b models.SupervisorOption) int {
		return a.Role.Rank() - b.Role.Rank()
	})
	return out, nil
}

// Subordinates lists every user below id.
func (s *UserService) Subordinates(ctx context.Context, claims *auth.Claims, id uint) ([]models.UserResponse, error) {
	ok, err := s.CanSee(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Forbidden("user is outside your reporting hierarchy")
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	ids, err := s.SubordinateIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

func toResponses(users []models.User) []models.UserResponse {
	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

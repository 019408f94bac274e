// Package access decides whether a session may open a role-gated path.
package access

import (
	"strings"

	"hardcase/coaching-app/internal/domain"
)

const LoginPath = "/login"

type Session struct {
	UserID string
	Role   domain.Role
}

// Decision is either Allow or a redirect target.
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

var allow = Decision{Allow: true}

func redirect(path string) Decision {
	return Decision{RedirectTo: path}
}

// Home is the landing path of a role.
func Home(role domain.Role) string {
	return "/" + string(role)
}

// Decide lets a session through when it carries the required role. Without a
// session the user is sent to the login page, with the wrong role to the home
// of the role they have. An empty required role means the path is public.
func Decide(session *Session, required domain.Role) Decision {
	if required == "" {
		return allow
	}
	if session == nil || session.UserID == "" || !session.Role.Valid() {
		return redirect(LoginPath)
	}
	if session.Role != required {
		return redirect(Home(session.Role))
	}
	return allow
}

type route struct {
	segments []string
	role     domain.Role
}

func newRoute(pattern string, role domain.Role) route {
	return route{segments: split(pattern), role: role}
}

// routes is the UI routing surface. ":name" matches any single segment.
var routes = []route{
	newRoute("/login", ""),
	newRoute("/", ""),

	newRoute("/client", domain.RoleClient),
	newRoute("/client/workouts", domain.RoleClient),
	newRoute("/client/workouts/:workoutId", domain.RoleClient),
	newRoute("/client/progress", domain.RoleClient),
	newRoute("/client/progress-photo/new", domain.RoleClient),
	newRoute("/client/measurements", domain.RoleClient),
	newRoute("/client/measurements/new", domain.RoleClient),
	newRoute("/client/nutrition", domain.RoleClient),
	newRoute("/client/activity", domain.RoleClient),
	newRoute("/client/activity/new", domain.RoleClient),
	newRoute("/client/achievements", domain.RoleClient),

	newRoute("/trainer", domain.RoleTrainer),
	newRoute("/trainer/clients", domain.RoleTrainer),
	newRoute("/trainer/clients/:clientId", domain.RoleTrainer),
	newRoute("/trainer/calendar", domain.RoleTrainer),
	newRoute("/trainer/exercises", domain.RoleTrainer),
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

func (r route) match(segments []string) bool {
	if len(r.segments) != len(segments) {
		return false
	}
	for i, s := range r.segments {
		if strings.HasPrefix(s, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if s != segments[i] {
			return false
		}
	}
	return true
}

// RequiredRole resolves the role a path demands. known is false for paths
// outside the routing surface; public paths are known with an empty role.
func RequiredRole(path string) (role domain.Role, known bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := split(path)
	for _, r := range routes {
		if r.match(segments) {
			return r.role, true
		}
	}
	return "", false
}

// Check combines RequiredRole and Decide. Unknown paths send the user to
// their home, or to the login page without a session.
func Check(session *Session, path string) Decision {
	role, known := RequiredRole(path)
	if known {
		return Decide(session, role)
	}
	if session == nil || !session.Role.Valid() {
		return redirect(LoginPath)
	}
	return redirect(Home(session.Role))
}

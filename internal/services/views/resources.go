package views

import (
	"context"
	"strings"

	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/phase"
	"adminconsole/internal/domain/project"
	"adminconsole/internal/domain/taskgroup"
	"adminconsole/internal/domain/user"
	"adminconsole/internal/listquery"
	"adminconsole/internal/upstream"
)

// Cache namespaces, one per list.
const (
	NamespaceCorporates = "corporate-lists"
	NamespaceUsers      = "user-lists"
	NamespaceProjects   = "project-lists"
	NamespacePhases     = "phases"
	NamespaceTaskGroups = "task-groups"
)

// Backend is the part of the upstream API list views read from.
type Backend interface {
	ListCorporates(ctx context.Context, token string, p corporate.ListParams) (upstream.Response[[]corporate.Corporate], error)
	ListUsers(ctx context.Context, token, corporateID string, p user.ListParams) (upstream.Response[[]user.User], error)
	ListProjects(ctx context.Context, token, corporateID string, p project.ListParams) (upstream.Response[[]project.Project], error)
	ListPhases(ctx context.Context, token, corporateID, projectID string, p phase.ListParams) (upstream.Response[[]phase.Phase], error)
	ListTaskGroups(ctx context.Context, token, corporateID, projectID string, p taskgroup.ListParams) (upstream.Response[[]taskgroup.TaskGroup], error)
}

// DefaultRegistry registers every list of the console.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Definition{
		Resource:   ResourceCorporates,
		Namespace:  NamespaceCorporates,
		FilterKeys: []string{"status"},
		Build:      buildCorporates,
	})
	r.Register(Definition{
		Resource:   ResourceUsers,
		Namespace:  NamespaceUsers,
		FilterKeys: []string{"status"},
		Corporate:  true,
		Build:      buildUsers,
	})
	r.Register(Definition{
		Resource:   ResourceProjects,
		Namespace:  NamespaceProjects,
		FilterKeys: []string{"status", "project_type"},
		Corporate:  true,
		Build:      buildProjects,
	})
	r.Register(Definition{
		Resource:   ResourcePhases,
		Namespace:  NamespacePhases,
		FilterKeys: []string{"status"},
		Corporate:  true,
		Project:    true,
		Build:      buildPhases,
	})
	r.Register(Definition{
		Resource:   ResourceTaskGroups,
		Namespace:  NamespaceTaskGroups,
		FilterKeys: []string{"phase_id"},
		Corporate:  true,
		Project:    true,
		Build:      buildTaskGroups,
	})
	return r
}

func buildCorporates(env Env) (Handle, error) {
	return listOf(env, NamespaceCorporates, nil,
		func(c corporate.Corporate) bool { return upstream.IsProcessingImage(c.ImageURL) },
		func(ctx context.Context, req listquery.Request) (upstream.Response[[]corporate.Corporate], error) {
			return env.Backend.ListCorporates(ctx, env.Token(), corporate.ListParams{
				Q:      req.SearchTerm,
				Status: req.Filters.Get("status"),
				Page:   req.Page,
				Limit:  req.Limit,
			})
		})
}

func buildUsers(env Env) (Handle, error) {
	return listOf(env, NamespaceUsers, env.Corporate, nil,
		func(ctx context.Context, req listquery.Request) (upstream.Response[[]user.User], error) {
			if req.ScopeID == "" {
				return upstream.Response[[]user.User]{}, ErrNoCorporate
			}
			return env.Backend.ListUsers(ctx, env.Token(), req.ScopeID, user.ListParams{
				Q:      req.SearchTerm,
				Status: req.Filters.Get("status"),
				Page:   req.Page,
				Limit:  req.Limit,
			})
		})
}

func buildProjects(env Env) (Handle, error) {
	return listOf(env, NamespaceProjects, env.Corporate,
		func(p project.Project) bool { return upstream.IsProcessingImage(p.ImageURL) },
		func(ctx context.Context, req listquery.Request) (upstream.Response[[]project.Project], error) {
			if req.ScopeID == "" {
				return upstream.Response[[]project.Project]{}, ErrNoCorporate
			}
			return env.Backend.ListProjects(ctx, env.Token(), req.ScopeID, project.ListParams{
				Q:           req.SearchTerm,
				Status:      req.Filters.Get("status"),
				ProjectType: req.Filters.Get("project_type"),
				Page:        req.Page,
				Limit:       req.Limit,
			})
		})
}

func buildPhases(env Env) (Handle, error) {
	return listOf(env, NamespacePhases, projectScope(env), nil,
		func(ctx context.Context, req listquery.Request) (upstream.Response[[]phase.Phase], error) {
			corporateID := scopeCorporate(req.ScopeID)
			if corporateID == "" {
				return upstream.Response[[]phase.Phase]{}, ErrNoCorporate
			}
			return env.Backend.ListPhases(ctx, env.Token(), corporateID, env.ProjectID, phase.ListParams{
				Status: req.Filters.Get("status"),
				Page:   req.Page,
				Limit:  req.Limit,
			})
		})
}

func buildTaskGroups(env Env) (Handle, error) {
	return listOf(env, NamespaceTaskGroups, projectScope(env), nil,
		func(ctx context.Context, req listquery.Request) (upstream.Response[[]taskgroup.TaskGroup], error) {
			corporateID := scopeCorporate(req.ScopeID)
			if corporateID == "" {
				return upstream.Response[[]taskgroup.TaskGroup]{}, ErrNoCorporate
			}
			return env.Backend.ListTaskGroups(ctx, env.Token(), corporateID, env.ProjectID, taskgroup.ListParams{
				PhaseID: req.Filters.Get("phase_id"),
				Page:    req.Page,
				Limit:   req.Limit,
			})
		})
}

func listOf[T any](env Env, namespace string, scope func() string, pending func(T) bool, fetch listquery.Fetcher[upstream.Response[[]T]]) (Handle, error) {
	c, err := listquery.New(env.Client, listquery.Config[upstream.Response[[]T], T]{
		Namespace:    namespace,
		Filters:      env.Filters,
		InitialPage:  env.Page,
		InitialLimit: env.Limit,
		Fetch:        fetch,
		Items:        func(r upstream.Response[[]T]) []T { return r.Data },
		PageInfo:     func(r upstream.Response[[]T]) *listquery.PageInfo { return r.PageInfo },
		Pending:      pending,
		Scope:        scope,
		Debounce:     env.Debounce,
		Poll:         env.Poll,
		OnNotice:     env.OnNotice,
		Clock:        env.Clock,
	})
	if err != nil {
		return nil, err
	}
	return handle[upstream.Response[[]T], T]{c}, nil
}

// projectScope keys project-level lists by corporate and project, so switching
// corporates refetches them.
func projectScope(env Env) func() string {
	return func() string {
		corporateID := env.Corporate()
		if corporateID == "" {
			return ""
		}
		return corporateID + "/" + env.ProjectID
	}
}

func scopeCorporate(scope string) string {
	corporateID, _, _ := strings.Cut(scope, "/")
	return corporateID
}

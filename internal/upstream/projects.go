package upstream

import (
	"context"
	"net/url"

	"adminconsole/internal/domain/phase"
	"adminconsole/internal/domain/project"
	"adminconsole/internal/domain/taskgroup"
)

func (c *Client) ListProjects(ctx context.Context, token, corporateID string, p project.ListParams) (Response[[]project.Project], error) {
	q := pageQuery(url.Values{"q": {p.Q}, "status": {p.Status}, "project_type": {p.ProjectType}}, p.Page, p.Limit)
	return get[[]project.Project](ctx, c, token, corporatePath(corporateID, "projects"), q)
}

func (c *Client) GetProject(ctx context.Context, token, corporateID, projectID string) (Response[project.Project], error) {
	return get[project.Project](ctx, c, token, corporatePath(corporateID, "projects", projectID), nil)
}

func (c *Client) CreateProject(ctx context.Context, token, corporateID string, p project.Payload) (Response[project.Project], error) {
	return post[project.Project](ctx, c, token, corporatePath(corporateID, "projects", "create"), p)
}

func (c *Client) CreateProjectFromTemplate(ctx context.Context, token, corporateID string, p project.FromTemplatePayload) (Response[project.Project], error) {
	return post[project.Project](ctx, c, token, corporatePath(corporateID, "projects", "from-template"), p)
}

func (c *Client) UpdateProject(ctx context.Context, token, corporateID, projectID string, p project.UpdatePayload) (Response[project.Project], error) {
	return put[project.Project](ctx, c, token, corporatePath(corporateID, "projects", projectID), p)
}

func (c *Client) AssignUsersToProject(ctx context.Context, token, corporateID, projectID string, p project.AssignmentPayload) (Response[any], error) {
	return post[any](ctx, c, token, corporatePath(corporateID, "projects", projectID, "assignment"), p)
}

func (c *Client) ListPhases(ctx context.Context, token, corporateID, projectID string, p phase.ListParams) (Response[[]phase.Phase], error) {
	q := pageQuery(url.Values{"status": {p.Status}}, p.Page, p.Limit)
	return get[[]phase.Phase](ctx, c, token, corporatePath(corporateID, "projects", projectID, "phases"), q)
}

func (c *Client) CreatePhase(ctx context.Context, token, corporateID, projectID string, p phase.Payload) (Response[phase.Phase], error) {
	return post[phase.Phase](ctx, c, token, corporatePath(corporateID, "projects", projectID, "phases"), p)
}

func (c *Client) UpdatePhase(ctx context.Context, token, corporateID, projectID, phaseID string, p phase.Payload) (Response[phase.Phase], error) {
	return put[phase.Phase](ctx, c, token, corporatePath(corporateID, "projects", projectID, "phases", phaseID), p)
}

func (c *Client) ListTaskGroups(ctx context.Context, token, corporateID, projectID string, p taskgroup.ListParams) (Response[[]taskgroup.TaskGroup], error) {
	q := pageQuery(url.Values{"phase_id": {p.PhaseID}}, p.Page, p.Limit)
	return get[[]taskgroup.TaskGroup](ctx, c, token, corporatePath(corporateID, "projects", projectID, "task-groups"), q)
}

func (c *Client) GetTaskGroup(ctx context.Context, token, corporateID, projectID, taskGroupID string) (Response[taskgroup.TaskGroup], error) {
	return get[taskgroup.TaskGroup](ctx, c, token, corporatePath(corporateID, "projects", projectID, "task-groups", taskGroupID), nil)
}

func (c *Client) CreateTaskGroup(ctx context.Context, token, corporateID, projectID string, p taskgroup.Payload) (Response[taskgroup.TaskGroup], error) {
	return post[taskgroup.TaskGroup](ctx, c, token, corporatePath(corporateID, "projects", projectID, "task-groups"), p)
}

func (c *Client) UpdateTaskGroup(ctx context.Context, token, corporateID, projectID, taskGroupID string, p taskgroup.Payload) (Response[taskgroup.TaskGroup], error) {
	return put[taskgroup.TaskGroup](ctx, c, token, corporatePath(corporateID, "projects", projectID, "task-groups", taskGroupID), p)
}

func (c *Client) AssignUsersToTaskGroup(ctx context.Context, token, corporateID, projectID, taskGroupID string, p taskgroup.AssignmentPayload) (Response[any], error) {
	return post[any](ctx, c, token, corporatePath(corporateID, "projects", projectID, "task-groups", taskGroupID, "assignment"), p)
}

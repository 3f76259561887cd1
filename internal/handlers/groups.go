// Package handlers implements the HTTP endpoints of the messenger backend.
// This file serves the groups endpoint: group lookup, creation, and the
// add/remove-member mutations. All membership writes are single atomic
// statements in the repository, and every mutation is audited.
package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jonesmarquelle/messenger/internal/metrics"
	"github.com/jonesmarquelle/messenger/internal/models"
	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/security"
)

// GroupsHandler serves GET and PUT /api/groups.
type GroupsHandler struct {
	groupRepo *repository.GroupRepository
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
	logger    *security.Logger
}

// NewGroupsHandler creates a GroupsHandler with its repository dependencies.
func NewGroupsHandler(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, logger *security.Logger) *GroupsHandler {
	return &GroupsHandler{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Get serves group lookups:
//
//	GET /api/groups?groupId=<id>               -> the group with members populated
//	GET /api/groups?groupId=<id>&name=members  -> just the member array
func (h *GroupsHandler) Get(c *fiber.Ctx) error {
	groupID := c.QueryInt("groupId")
	if groupID == 0 {
		return respondError(c, h.logger, &ValidationError{Missing: []string{"groupId"}})
	}

	if c.Query("name") == "members" {
		members, err := h.groupRepo.GetMembers(c.Context(), groupID)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(members)
	}

	group, err := h.groupRepo.FindByID(c.Context(), groupID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(group)
}

// Put dispatches a group mutation by its action discriminator:
// create, addMember, or removeMember. Validation happens before any write,
// and the response carries the created or updated group.
func (h *GroupsHandler) Put(c *fiber.Ctx) error {
	parsed, err := parseGroupAction(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	switch req := parsed.(type) {
	case CreateGroupRequest:
		return h.createGroup(c, req)
	case AddMemberRequest:
		return h.addMember(c, req)
	case RemoveMemberRequest:
		return h.removeMember(c, req)
	default:
		return respondError(c, h.logger, ErrInvalidAction)
	}
}

// createGroup creates a group whose sole initial member is the creator.
func (h *GroupsHandler) createGroup(c *fiber.Ctx, req CreateGroupRequest) error {
	group := &models.Group{Name: req.Name}
	if req.IconURL != "" {
		group.IconURL = &req.IconURL
	}

	if err := h.groupRepo.Create(c.Context(), group, req.CreatorID); err != nil {
		return respondError(c, h.logger, err)
	}

	metrics.GroupsCreated.Inc()
	h.audit(c, req.CreatorID, "CREATE_GROUP", group.ID)

	return c.JSON(group)
}

// addMember resolves the target user (by id, or by display name when no id
// was given) and adds them to the group. The insert is deduplicated, so
// adding an existing member leaves the set unchanged.
func (h *GroupsHandler) addMember(c *fiber.Ctx, req AddMemberRequest) error {
	userID := req.UserID
	if userID == "" {
		user, err := h.userRepo.FindByName(c.Context(), req.UserName)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		userID = user.ID
	}

	if err := h.groupRepo.AddMember(c.Context(), req.GroupID, userID); err != nil {
		return respondError(c, h.logger, err)
	}

	group, err := h.groupRepo.FindByID(c.Context(), req.GroupID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.audit(c, userID, "ADD_GROUP_MEMBER", req.GroupID)

	return c.JSON(group)
}

// removeMember removes the user from the group. Removing a non-member is a
// no-op; the handler still responds with the group's current state.
func (h *GroupsHandler) removeMember(c *fiber.Ctx, req RemoveMemberRequest) error {
	if err := h.groupRepo.RemoveMember(c.Context(), req.GroupID, req.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	group, err := h.groupRepo.FindByID(c.Context(), req.GroupID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.audit(c, req.UserID, "REMOVE_GROUP_MEMBER", req.GroupID)

	return c.JSON(group)
}

// audit records a membership mutation. Audit failures are logged but never
// fail the request that triggered them.
func (h *GroupsHandler) audit(c *fiber.Ctx, actorID, action string, groupID int) {
	entry := &models.AuditLog{
		ActorID:    &actorID,
		Action:     action,
		ObjectType: "group",
		ObjectID:   &groupID,
		IPAddress:  c.IP(),
	}

	if err := h.auditRepo.Log(context.WithoutCancel(c.Context()), entry); err != nil && h.logger != nil {
		h.logger.Error("audit log write failed", err)
	}
}

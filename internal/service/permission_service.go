package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 权限模块业务错误 ──

var (
	ErrRoleUnknown        = errors.New("未知角色")
	ErrRoleModelUnknown   = errors.New("未知的模型记号")
	ErrTooManyExclusions  = errors.New("应用记号最多允许两个排除项")
	ErrAssignmentNotFound = errors.New("角色指派不存在")
)

// appModels 应用名（首字母大写）到其模型集合的展开表
var appModels = map[string][]string{
	"Academics": {"college", "department", "course", "prerequisite", "curriculum", "curriculum_course", "concentration"},
	"Timely":    {"academic_year", "semester", "term", "schedule"},
	"Spaces":    {"space", "room"},
	"Registry":  {"section", "session", "reservation", "registration", "grade", "grade_value"},
	"Finance":   {"section_fee", "invoice", "payment", "financial_record", "scholarship"},
	"People":    {"user", "student", "staff", "faculty", "donor"},
	"Docs":      {"document", "transcript_request"},
}

// roleMatrix 角色 -> {动作: [模型记号]}
// 记号可为裸模型名、首字母大写的应用名（展开为该应用全部模型）、
// 或 App-排除1-排除2（至多两个排除项）
var roleMatrix = map[string]map[string][]string{
	model.RoleStudent: {
		"view": {"course", "section", "session", "curriculum", "grade", "invoice", "payment", "document"},
		"add":  {"reservation", "transcript_request", "document"},
	},
	model.RoleProspectiveStudent: {
		"view": {"course", "section", "curriculum"},
	},
	model.RoleDean: {
		"view":   {"Academics", "Registry", "People-user-donor", "college"},
		"change": {"curriculum", "section", "college"},
		"add":    {"curriculum", "curriculum_course"},
	},
	model.RoleChair: {
		"view":   {"Academics", "Registry"},
		"change": {"course", "section"},
		"add":    {"course", "section", "session"},
	},
	model.RoleLecturer: {
		"view": {"section", "session", "registration"},
		"add":  {"grade"},
	},
	model.RoleAssistantProfessor: {
		"view":   {"section", "session", "registration"},
		"add":    {"grade"},
		"change": {"grade"},
	},
	model.RoleAssociateProfessor: {
		"view":   {"section", "session", "registration"},
		"add":    {"grade"},
		"change": {"grade"},
	},
	model.RoleFullProfessor: {
		"view":   {"Registry"},
		"add":    {"grade"},
		"change": {"grade"},
	},
	model.RoleTechnician: {
		"view": {"Spaces", "Timely"},
	},
	model.RoleLabTechnician: {
		"view":   {"Spaces"},
		"change": {"room"},
	},
	model.RoleFaculty: {
		"view": {"Academics", "Timely", "section", "session"},
	},
	model.RoleVPAA: {
		"view":   {"Academics", "Timely", "Registry", "People", "Docs"},
		"change": {"curriculum", "semester"},
	},
	model.RoleRegistrar: {
		"view":   {"Academics", "Timely", "Registry", "People", "Docs"},
		"add":    {"Registry-grade_value", "academic_year", "semester", "term", "student"},
		"change": {"Registry-grade_value", "semester", "student", "transcript_request", "document"},
	},
	model.RoleFinancialOfficer: {
		"view":   {"Finance", "student", "registration"},
		"add":    {"invoice", "payment", "scholarship", "section_fee"},
		"change": {"financial_record", "invoice"},
	},
	model.RoleEnrollmentOfficer: {
		"view":   {"Registry", "student", "course", "section"},
		"add":    {"reservation", "registration"},
		"change": {"reservation", "registration"},
	},
}

// ExpandRoleModel 把模型记号列表展开为去重有序的模型名列表
func ExpandRoleModel(tokens []string) ([]string, error) {
	set := map[string]bool{}
	for _, token := range tokens {
		parts := strings.Split(token, "-")
		head := parts[0]

		if head != "" && head[0] >= 'A' && head[0] <= 'Z' {
			all, ok := appModels[head]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrRoleModelUnknown, head)
			}
			if len(parts) > 3 {
				return nil, fmt.Errorf("%w: %s", ErrTooManyExclusions, token)
			}
			excluded := map[string]bool{}
			for _, ex := range parts[1:] {
				excluded[ex] = true
			}
			for _, m := range all {
				if !excluded[m] {
					set[m] = true
				}
			}
			continue
		}

		if len(parts) > 1 {
			return nil, fmt.Errorf("%w: %s", ErrRoleModelUnknown, token)
		}
		set[head] = true
	}

	models := make([]string, 0, len(set))
	for m := range set {
		models = append(models, m)
	}
	sort.Strings(models)
	return models, nil
}

// PermissionService 角色矩阵、角色指派与查询圈定业务接口
type PermissionService interface {
	// RebuildPermissions 清空组-权限绑定后按角色矩阵重建
	RebuildPermissions(ctx context.Context) (*dto.RebuildPermissionsResponse, error)

	CreateRoleAssignment(ctx context.Context, req *dto.CreateRoleAssignmentRequest, callerID string) (*dto.RoleAssignmentResponse, error)
	ListRoleAssignments(ctx context.Context, userID string) ([]dto.RoleAssignmentResponse, error)
	DeleteRoleAssignment(ctx context.Context, id string) error

	// HasPermission 模型级权限：用户任一所属组持有 action_model 即通过
	HasPermission(ctx context.Context, userID, action, modelName string) (bool, error)
	// ScopeColleges 查询圈定：返回用户可见的学院 ID 集合，nil 表示不设限
	ScopeColleges(ctx context.Context, user *model.User) ([]string, error)
}

type permissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPermissionService 创建 PermissionService 实例
func NewPermissionService(repo *repository.Repository, logger *zap.Logger) PermissionService {
	return &permissionService{repo: repo, logger: logger}
}

// ────────────────────── 矩阵重建 ──────────────────────

func (s *permissionService) RebuildPermissions(ctx context.Context) (*dto.RebuildPermissionsResponse, error) {
	summary := &dto.RebuildPermissionsResponse{}

	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Permission.ClearGroupPermissions(ctx); err != nil {
			return err
		}

		for _, role := range model.AllRoles() {
			group, err := txRepo.Permission.GetOrCreateGroup(ctx, role)
			if err != nil {
				return err
			}
			summary.Groups++

			actions := roleMatrix[role]
			for action, tokens := range actions {
				models, err := ExpandRoleModel(tokens)
				if err != nil {
					return err
				}
				for _, modelName := range models {
					codename := fmt.Sprintf("%s_%s", action, modelName)
					perm, err := txRepo.Permission.GetOrCreatePermission(ctx, codename, modelName, action)
					if err != nil {
						return err
					}
					summary.Permissions++
					if err := txRepo.Permission.AttachPermission(ctx, group.GroupID, perm.PermissionID); err != nil {
						return err
					}
					summary.Attached++
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("重建权限矩阵失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("权限矩阵重建完成",
		zap.Int("groups", summary.Groups),
		zap.Int("attached", summary.Attached))
	return summary, nil
}

// ────────────────────── 角色指派 ──────────────────────

// CreateRoleAssignment 指派角色；带学院时按矩阵为该学院逐动作发对象级授权
func (s *permissionService) CreateRoleAssignment(ctx context.Context, req *dto.CreateRoleAssignmentRequest, callerID string) (*dto.RoleAssignmentResponse, error) {
	if !model.IsValidRole(req.Role) {
		return nil, ErrRoleUnknown
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrDateInvalid
	}

	assignment := &model.RoleAssignment{
		UserID:    req.UserID,
		Role:      req.Role,
		StartDate: start,
	}
	if req.CollegeID != "" {
		assignment.CollegeID = &req.CollegeID
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrDateInvalid
		}
		assignment.EndDate = &end
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Permission.CreateRoleAssignment(ctx, assignment); err != nil {
			return err
		}

		group, err := txRepo.Permission.GetOrCreateGroup(ctx, req.Role)
		if err != nil {
			return err
		}
		if err := txRepo.User.AddToGroup(ctx, req.UserID, group.GroupID); err != nil {
			return err
		}

		// 学院内对象级授权：矩阵中凡动作涉及 college 模型的发一条
		if req.CollegeID != "" {
			for action, tokens := range roleMatrix[req.Role] {
				models, err := ExpandRoleModel(tokens)
				if err != nil {
					return err
				}
				for _, m := range models {
					if m != "college" {
						continue
					}
					grant := &model.ObjectPermission{
						UserID:   req.UserID,
						Action:   action,
						Model:    "college",
						ObjectID: req.CollegeID,
					}
					if err := txRepo.Permission.CreateObjectPermission(ctx, grant); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("指派角色失败", zap.Error(err))
		return nil, err
	}
	return toRoleAssignmentResponse(assignment), nil
}

func (s *permissionService) ListRoleAssignments(ctx context.Context, userID string) ([]dto.RoleAssignmentResponse, error) {
	assignments, err := s.repo.Permission.ListRoleAssignments(ctx, userID)
	if err != nil {
		s.logger.Error("列出角色指派失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RoleAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *toRoleAssignmentResponse(&assignments[i]))
	}
	return result, nil
}

func (s *permissionService) DeleteRoleAssignment(ctx context.Context, id string) error {
	return s.repo.Permission.DeleteRoleAssignment(ctx, id)
}

// ────────────────────── 鉴权查询 ──────────────────────

func (s *permissionService) HasPermission(ctx context.Context, userID, action, modelName string) (bool, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if user.IsSuperuser {
		return true, nil
	}

	codename := fmt.Sprintf("%s_%s", action, modelName)
	for _, group := range user.Groups {
		codenames, err := s.repo.Permission.GroupPermissionCodenames(ctx, group.GroupID)
		if err != nil {
			return false, err
		}
		for _, c := range codenames {
			if c == codename {
				return true, nil
			}
		}
	}
	return false, nil
}

// ScopeColleges 院长/系主任只见本院；超级用户与无限定角色不设限
func (s *permissionService) ScopeColleges(ctx context.Context, user *model.User) ([]string, error) {
	if user.IsSuperuser {
		return nil, nil
	}

	assignments, err := s.repo.Permission.ActiveRoleAssignments(ctx, user.UserID, time.Now())
	if err != nil {
		return nil, err
	}

	scoped := false
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		switch a.Role {
		case model.RoleDean, model.RoleChair:
			scoped = true
			if a.CollegeID != nil {
				ids = append(ids, *a.CollegeID)
			}
		default:
			// 任一非圈定角色即放开
			return nil, nil
		}
	}
	if !scoped {
		return nil, nil
	}
	return ids, nil
}

// ── 内部辅助方法 ──

func toRoleAssignmentResponse(a *model.RoleAssignment) *dto.RoleAssignmentResponse {
	resp := &dto.RoleAssignmentResponse{
		ID:        a.RoleAssignmentID,
		UserID:    a.UserID,
		Role:      a.Role,
		StartDate: a.StartDate.Format("2006-01-02"),
	}
	if a.CollegeID != nil {
		resp.CollegeID = *a.CollegeID
	}
	if a.College != nil {
		resp.CollegeCode = a.College.Code
	}
	if a.EndDate != nil {
		resp.EndDate = a.EndDate.Format("2006-01-02")
	}
	return resp
}

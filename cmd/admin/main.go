package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/database"
	"github.com/maliky/tuth-sub000/pkg/jwt"
	applogger "github.com/maliky/tuth-sub000/pkg/logger"
)

const usage = `用法: admin <command> [args]

命令:
  migrate                         执行数据库迁移
  reset-db                        清空并重建数据库结构
  load-taxonomies                 装载状态/类别查找表
  load-permissions                按角色矩阵重建组-权限绑定
  load-roles                      创建全部角色权限组
  import-resources <dir>          导入目录下的资源 CSV
  import-workbook <file.xlsx>     导入排课工作簿
  import-schedule <file>          导入排课 CSV
  cancel-expired-reservations     回收逾期未确认的预约
  create-test-users               创建每个角色的测试账号
  seed                            初始化基础数据（查找表+角色+权限+成绩等级+测试账号）

通用旗标:
  --dry-run                       导入命令试算后回滚`

// 标准字母成绩与绩点
var gradeScale = map[string]string{
	"A": "4.00", "AB": "3.50", "B": "3.00", "BC": "2.50",
	"C": "2.00", "CD": "1.50", "D": "1.00", "F": "0.00",
	"W": "0.00", "I": "0.00",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	repo := repository.NewRepository(db)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, repo, jwtMgr, nil, logger)

	app := &adminApp{cfg: cfg, repo: repo, svc: svc, logger: logger}
	ctx := context.Background()

	command := os.Args[1]
	args, dryRun := parseFlags(os.Args[2:])

	switch command {
	case "migrate":
		err = database.RunMigrations(sqlDB, logger)
	case "reset-db":
		err = database.ResetDatabase(sqlDB, logger)
	case "load-taxonomies":
		err = app.loadTaxonomies(ctx)
	case "load-permissions":
		err = app.loadPermissions(ctx)
	case "load-roles":
		err = app.loadRoles(ctx)
	case "import-resources":
		err = app.importResources(ctx, args, dryRun)
	case "import-workbook":
		err = app.importWorkbook(ctx, args, dryRun)
	case "import-schedule":
		err = app.importSchedule(ctx, args, dryRun)
	case "cancel-expired-reservations":
		err = app.cancelExpired(ctx)
	case "create-test-users":
		err = app.createTestUsers(ctx)
	case "seed":
		err = app.seed(ctx)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("命令执行失败", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("命令执行完成", zap.String("command", command))
}

func parseFlags(raw []string) (args []string, dryRun bool) {
	for _, a := range raw {
		if a == "--dry-run" {
			dryRun = true
			continue
		}
		args = append(args, a)
	}
	return args, dryRun
}

type adminApp struct {
	cfg    *config.Config
	repo   *repository.Repository
	svc    *service.Service
	logger *zap.Logger
}

// loadTaxonomies 装载全部查找表；幂等，可重复执行
func (a *adminApp) loadTaxonomies(ctx context.Context) error {
	tables := []struct {
		name  string
		codes []string
	}{
		{"status_registrations", model.RegistrationStatusCodes},
		{"status_documents", model.DocumentStatusCodes},
		{"semester_statuses", model.SemesterStatusCodes},
		{"payment_methods", model.PaymentMethodCodes},
		{"clearance_statuses", model.ClearanceStatusCodes},
		{"fee_types", model.FeeTypeCodes},
		{"document_types", model.DocumentTypeCodes},
	}
	for _, t := range tables {
		if err := a.repo.Lookup.Seed(ctx, t.name, t.codes); err != nil {
			return fmt.Errorf("装载 %s 失败: %w", t.name, err)
		}
		a.logger.Info("查找表已装载", zap.String("table", t.name), zap.Int("codes", len(t.codes)))
	}
	return nil
}

func (a *adminApp) loadPermissions(ctx context.Context) error {
	result, err := a.svc.Permission.RebuildPermissions(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("权限矩阵已重建",
		zap.Int("groups", result.Groups),
		zap.Int("permissions", result.Permissions),
		zap.Int("attached", result.Attached))
	return nil
}

func (a *adminApp) loadRoles(ctx context.Context) error {
	for _, role := range model.AllRoles() {
		if _, err := a.repo.Permission.GetOrCreateGroup(ctx, role); err != nil {
			return fmt.Errorf("创建角色组 %s 失败: %w", role, err)
		}
	}
	a.logger.Info("角色组已创建", zap.Int("roles", len(model.AllRoles())))
	return nil
}

func (a *adminApp) importResources(ctx context.Context, args []string, dryRun bool) error {
	if len(args) < 1 {
		return fmt.Errorf("缺少目录参数")
	}
	summary, err := a.svc.Importer.ImportResources(ctx, args[0], dryRun)
	if summary != nil {
		logSummary(a.logger, summary.Phases)
	}
	return err
}

func (a *adminApp) importWorkbook(ctx context.Context, args []string, dryRun bool) error {
	if len(args) < 1 {
		return fmt.Errorf("缺少文件参数")
	}
	summary, err := a.svc.Importer.ImportWorkbook(ctx, args[0], dryRun)
	if summary != nil {
		logSummary(a.logger, summary.Phases)
	}
	return err
}

func (a *adminApp) importSchedule(ctx context.Context, args []string, dryRun bool) error {
	if len(args) < 1 {
		return fmt.Errorf("缺少文件参数")
	}
	summary, err := a.svc.Importer.ImportSchedule(ctx, args[0], dryRun)
	if summary != nil {
		logSummary(a.logger, summary.Phases)
	}
	return err
}

func (a *adminApp) cancelExpired(ctx context.Context) error {
	count, err := a.svc.Enrollment.CancelExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	a.logger.Info("逾期预约已回收", zap.Int("count", count))
	return nil
}

// createTestUsers 每个角色建一个 test_<role> 账号，密码与用户名相同
func (a *adminApp) createTestUsers(ctx context.Context) error {
	for _, role := range model.AllRoles() {
		username := "test_" + role
		if _, err := a.repo.User.GetByUsername(ctx, username); err == nil {
			continue // 已存在
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &model.User{
			Username:     username,
			FirstName:    "Test",
			LastName:     role,
			Email:        username + "@tubman.edu",
			PasswordHash: string(hash),
			IsStaff:      role != model.RoleStudent && role != model.RoleProspectiveStudent,
			IsActive:     true,
		}
		if err := a.repo.User.Create(ctx, user); err != nil {
			return fmt.Errorf("创建测试账号 %s 失败: %w", username, err)
		}
		group, err := a.repo.Permission.GetOrCreateGroup(ctx, role)
		if err != nil {
			return err
		}
		if err := a.repo.User.AddToGroup(ctx, user.UserID, group.GroupID); err != nil {
			return err
		}
	}
	a.logger.Info("测试账号已创建", zap.Int("roles", len(model.AllRoles())))
	return nil
}

// seed 一次性初始化：查找表 + 角色 + 权限 + 成绩等级 + 测试账号
func (a *adminApp) seed(ctx context.Context) error {
	if err := a.loadTaxonomies(ctx); err != nil {
		return err
	}
	if err := a.loadRoles(ctx); err != nil {
		return err
	}
	if err := a.loadPermissions(ctx); err != nil {
		return err
	}
	for code, points := range gradeScale {
		numeric, err := decimal.NewFromString(points)
		if err != nil {
			return err
		}
		if _, err := a.repo.Grade.GetOrCreateValue(ctx, &model.GradeValue{Code: code, Numeric: numeric}); err != nil {
			return fmt.Errorf("装载成绩等级 %s 失败: %w", code, err)
		}
	}
	a.logger.Info("成绩等级已装载", zap.Int("values", len(gradeScale)))

	if _, err := a.svc.Spaces.EnsureTBA(ctx); err != nil {
		return fmt.Errorf("创建默认 TBA 教室失败: %w", err)
	}
	return a.createTestUsers(ctx)
}

func logSummary(logger *zap.Logger, phases []dto.ImportPhaseSummary) {
	for _, p := range phases {
		logger.Info("导入阶段",
			zap.String("phase", p.Phase),
			zap.Int("rows", p.Rows),
			zap.Int("created", p.Created),
			zap.Int("skipped", p.Skipped),
			zap.Int("errors", p.Errors))
	}
}

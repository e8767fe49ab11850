package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 编码/姓名解析错误 ──

var (
	ErrCourseCodeInvalid = errors.New("课程代码格式非法")
	ErrCourseCodeSlash   = errors.New("课程代码不允许包含斜杠")
)

// courseCodeRe 课程代码：系所 2-4 位大写 + 可选分隔 + 三位课程号 + 可选学院后缀
var courseCodeRe = regexp.MustCompile(
	`^(?P<dept>[A-Z]{2,4})[_-]?(?P<num>[0-9]{3})(?:\s*-\s*(?P<college>[A-Z]{3,4}))?$`,
)

// CourseCodeParts 课程代码解析结果
type CourseCodeParts struct {
	Dept    string
	Number  string
	College string
}

// ExpandCourseCode 解析 "ENGL101" / "ENGL_101-COAS" 形式的课程代码
// rowCollege 为行级学院提示；代码内后缀优先，其次行提示，最后落到默认学院
func ExpandCourseCode(code, rowCollege, defaultCollege string) (*CourseCodeParts, error) {
	code = strings.TrimSpace(code)
	if strings.Contains(code, "/") {
		return nil, ErrCourseCodeSlash
	}
	m := courseCodeRe.FindStringSubmatch(strings.ToUpper(code))
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrCourseCodeInvalid, code)
	}
	parts := &CourseCodeParts{Dept: m[1], Number: m[2], College: m[3]}
	if parts.College == "" {
		parts.College = strings.ToUpper(strings.TrimSpace(rowCollege))
	}
	if parts.College == "" {
		parts.College = defaultCollege
	}
	return parts, nil
}

// MakeCourseCode 由系所简称与课程号拼出标准短代码，学院非空时附 "-COLLEGE" 后缀
func MakeCourseCode(dept, number, college string) string {
	code := strings.ToUpper(dept) + number
	if college = strings.ToUpper(strings.TrimSpace(college)); college != "" {
		code += "-" + college
	}
	return code
}

// ── 姓名拆分 ──

var (
	suffixRe = regexp.MustCompile(`(?i)^(Ph\.?D\.?|Ed\.?D\.?|MD|SHF|Jr\.?|Sr\.?|I{1,3})$`)
	prefixRe = regexp.MustCompile(`(?i)^(Doc|Dr|Mme|Mrs?|Ms|Prof|Rev|Sr|Fr)\.?$`)
)

// NameParts 姓名拆分结果
type NameParts struct {
	Prefix string
	First  string
	Middle string
	Last   string
	Suffix string
}

// SplitName 把 "Dr. John K. Doe Jr." / "Doe, John" 拆为结构化姓名
// 逗号形式按 "姓, 名" 倒置；单字母点号段视为中间名缩写
func SplitName(full string) NameParts {
	var parts NameParts
	full = strings.TrimSpace(full)
	if full == "" {
		return parts
	}

	// 逗号倒置："Doe, John K." -> "John K. Doe"
	if i := strings.Index(full, ","); i >= 0 {
		last := strings.TrimSpace(full[:i])
		rest := strings.TrimSpace(full[i+1:])
		full = strings.TrimSpace(rest + " " + last)
	}

	tokens := strings.Fields(full)

	// 前缀
	if len(tokens) > 1 && prefixRe.MatchString(tokens[0]) {
		parts.Prefix = strings.TrimSuffix(tokens[0], ".")
		tokens = tokens[1:]
	}
	// 后缀
	if len(tokens) > 1 && suffixRe.MatchString(tokens[len(tokens)-1]) {
		parts.Suffix = strings.TrimSuffix(tokens[len(tokens)-1], ".")
		tokens = tokens[:len(tokens)-1]
	}

	switch len(tokens) {
	case 0:
	case 1:
		parts.Last = tokens[0]
	case 2:
		parts.First, parts.Last = tokens[0], tokens[1]
	default:
		parts.First = tokens[0]
		parts.Last = tokens[len(tokens)-1]
		parts.Middle = strings.Join(tokens[1:len(tokens)-1], " ")
	}
	return parts
}

// ── 用户名/密码 ──

const usernameMaxLen = 13

var usernameCleanRe = regexp.MustCompile(`[^a-z0-9]`)

// baseUsername 名首字母 + 姓，小写去符号，截到 13 位
func baseUsername(first, last string) string {
	var b strings.Builder
	if first != "" {
		b.WriteString(strings.ToLower(first[:1]))
	}
	b.WriteString(strings.ToLower(last))
	name := usernameCleanRe.ReplaceAllString(b.String(), "")
	if len(name) > usernameMaxLen {
		name = name[:usernameMaxLen]
	}
	return name
}

// MkUsername 生成唯一用户名：基名已占用时追加从 2 起的计数后缀
func MkUsername(ctx context.Context, users repository.UserRepository, first, last string) (string, error) {
	base := baseUsername(first, last)
	if base == "" {
		base = "user"
	}

	taken, err := users.UsernameExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%d", base, n)
		taken, err := users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// MkPassword 由用户名派生确定性初始密码，批量建号后线下分发
func MkPassword(username string) string {
	sum := sha256.Sum256([]byte("tuth:" + username))
	return hex.EncodeToString(sum[:])[:12]
}

package model

// 系统角色枚举；每个角色对应一个同名权限组
const (
	RoleStudent            = "student"
	RoleProspectiveStudent = "prospective_student"
	RoleDean               = "dean"
	RoleChair              = "chair"
	RoleLecturer           = "lecturer"
	RoleAssistantProfessor = "assistant_professor"
	RoleAssociateProfessor = "associate_professor"
	RoleFullProfessor      = "full_professor"
	RoleTechnician         = "technician"
	RoleLabTechnician      = "lab_technician"
	RoleFaculty            = "faculty"
	RoleVPAA               = "vpaa"
	RoleRegistrar          = "registrar"
	RoleFinancialOfficer   = "financial_officer"
	RoleEnrollmentOfficer  = "enrollment_officer"
)

// AllRoles 全部角色码
func AllRoles() []string {
	return []string{
		RoleStudent,
		RoleProspectiveStudent,
		RoleDean,
		RoleChair,
		RoleLecturer,
		RoleAssistantProfessor,
		RoleAssociateProfessor,
		RoleFullProfessor,
		RoleTechnician,
		RoleLabTechnician,
		RoleFaculty,
		RoleVPAA,
		RoleRegistrar,
		RoleFinancialOfficer,
		RoleEnrollmentOfficer,
	}
}

// IsValidRole 角色码是否合法
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

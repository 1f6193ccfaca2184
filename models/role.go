package models

import "strings"

// Role 类型类别在汇总与余额计算中的角色
type Role string

const (
	RoleIncome     Role = "income"
	RoleExpense    Role = "expense"
	RoleLoan       Role = "loan"
	RoleSettlement Role = "settlement"
	RoleNone       Role = "none"
)

var roleByName = map[string]Role{
	"income":     RoleIncome,
	"expense":    RoleExpense,
	"loan":       RoleLoan,
	"settlement": RoleSettlement,
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleIncome, RoleExpense, RoleLoan, RoleSettlement, RoleNone:
		return true
	}
	return false
}

// ParseRole 解析请求中的角色，空串视为未指定
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	r := Role(s)
	return r, r.Valid()
}

// InferRole 按类别名推断角色，不区分大小写
func InferRole(name string) Role {
	if r, ok := roleByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r
	}
	return RoleNone
}

package basic

// UserMeta 身份提供方签发的用户信息，从 jwt claims 解析
type UserMeta struct {
	UserId string `json:"userId" mapstructure:"userId"`
	Email  string `json:"email" mapstructure:"email"`
	Name   string `json:"name" mapstructure:"name"`
	Role   string `json:"role" mapstructure:"role"`
}

func (m *UserMeta) GetUserId() string {
	if m == nil {
		return ""
	}
	return m.UserId
}

func (m *UserMeta) GetEmail() string {
	if m == nil {
		return ""
	}
	return m.Email
}

func (m *UserMeta) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

func (m *UserMeta) GetRole() string {
	if m == nil {
		return ""
	}
	return m.Role
}

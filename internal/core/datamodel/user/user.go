package user

type User struct {
	ID           int64  `gorm:"primaryKey" db:"id"`
	Username     string `gorm:"column:username;uniqueIndex;not null" db:"username"`
	PasswordHash string `gorm:"column:password;not null" db:"password"`
	Role         string `gorm:"column:role;not null;default:viewer" db:"role"`
	Status       string `gorm:"column:status;not null;default:active" db:"status"`
}

func (User) TableName() string {
	return "users"
}

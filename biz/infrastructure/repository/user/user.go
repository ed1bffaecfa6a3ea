package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 由身份服务维护，这里只读取展示与发信所需字段
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Role       string             `bson:"role" json:"role"`
	CreateTime time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime time.Time          `bson:"update_time" json:"updateTime"`
}

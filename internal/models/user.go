package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents the application user account.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	PasswordHash        string             `bson:"password" json:"-"`
	IsAdmin             bool               `bson:"isAdmin" json:"isAdmin"`
	IsVerified          bool               `bson:"isVerified" json:"isVerified"`
	OTP                 string             `bson:"otp,omitempty" json:"-"`
	OTPExpires          *time.Time         `bson:"otpExpires,omitempty" json:"-"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

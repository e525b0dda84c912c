package model

import "time"

// User はサービス利用ユーザーを表す。
// 認証・トークン発行は外部コラボレーターの責務であり、ここでは参照のみ行う。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// 発行は外部の認証基盤が行い、本システムはCookieからの検証参照のみ行う。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

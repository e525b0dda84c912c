package model

import "time"

// Topic は記事の分類トピックを表す。
// 非アクティブなトピックは新規の関連付けから除外されるが、
// 既存記事からの参照は歴史的に残る。
type Topic struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TopicFollow はユーザーによるトピックのフォローを表す。
// (user_id, topic_id) の組につき最大1件。重複フォローはConflictエラーになる。
type TopicFollow struct {
	ID        string
	UserID    string
	TopicID   string
	CreatedAt time.Time
}

package model

import "time"

// Preference はユーザーごとのトピック嗜好モデルを表す。
// 不変条件: Preferred ∩ Avoided = ∅。
// 更新は「移動」のセマンティクスで行い、トピックは常にどちらか一方にのみ属する。
// レコードは初回利用時に空集合で作成され、以後削除されない。
type Preference struct {
	UserID    string
	Preferred []string // topic id
	Avoided   []string // topic id
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPreferred は嗜好トピック集合が空でないかどうかを返す。
func (p *Preference) HasPreferred() bool {
	return len(p.Preferred) > 0
}

package entities

import "time"

type KBDocument struct {
	DocID     uint      `gorm:"primaryKey" json:"docId"`
	Title     string    `json:"title"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	Tags      string    `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type KBChunk struct {
	ChunkID   uint      `gorm:"primaryKey" json:"chunkId"`
	DocID     uint      `gorm:"index" json:"docId"`
	Ord       int       `json:"ord"`
	Text      string    `json:"text"`
	Embedding []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

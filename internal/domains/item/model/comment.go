package model

import "shareit/shared/model"

const (
	CommentTableName  = "comments"
	CommentEntityName = "comment"

	CommentFieldID       = "id"
	CommentFieldText     = "text"
	CommentFieldItemID   = "item_id"
	CommentFieldAuthorID = "author_id"
)

type Comment struct {
	ID         int64  `db:"id"          insert:"false"`
	Text       string `db:"text"`
	ItemID     int64  `db:"item_id"`
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name" table:"users" column:"name"`
	model.Metadata
}

func (Comment) Joins() []model.Join {
	return []model.Join{{Table: "users", Column: "id", Ref: CommentFieldAuthorID}}
}

package models

import "github.com/uptrace/bun"

// FAQ is a question/answer pair for the about page. Higher
// display_order shows first.
type FAQ struct {
	bun.BaseModel `bun:"table:faqs,alias:f"`

	FAQID        int    `bun:"faq_id,pk,autoincrement" json:"faqID"`
	Question     string `bun:"question,notnull" json:"question"`
	Answer       string `bun:"answer,notnull" json:"answer"`
	DisplayOrder int    `bun:"display_order,notnull,default:0" json:"displayOrder"`
}

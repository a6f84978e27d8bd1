package sqldriver

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	chatsTable       = "chats"
	messagesTable    = "messages"
	suggestionsTable = "suggestions"
)

func timeType(d string) string {
	if d == dialect.Postgres {
		return "timestamptz"
	}
	return "datetime"
}

// migrate creates any missing tables. Schema changes are append-only.
func (d *Driver) migrate(ctx context.Context) error {
	b := entsql.Dialect(d.dialect)

	stmts := []*entsql.TableBuilder{
		b.CreateTable(chatsTable).IfNotExists().
			Columns(
				entsql.Column("id").Type("varchar(36)").Attr("NOT NULL"),
				entsql.Column("title").Type("text").Attr("NOT NULL"),
				entsql.Column("focus_mode").Type("text").Attr("NOT NULL"),
				entsql.Column("created_at").Type(timeType(d.dialect)).Attr("NOT NULL"),
			).
			PrimaryKey("id"),

		b.CreateTable(messagesTable).IfNotExists().
			Columns(
				entsql.Column("id").Type("varchar(36)").Attr("NOT NULL"),
				entsql.Column("chat_id").Type("varchar(36)").Attr("NOT NULL"),
				entsql.Column("message_id").Type("text").Attr("NOT NULL"),
				entsql.Column("role").Type("text").Attr("NOT NULL"),
				entsql.Column("content").Type("text").Attr("NOT NULL"),
				entsql.Column("metadata").Type("text"),
				entsql.Column("created_at").Type(timeType(d.dialect)).Attr("NOT NULL"),
			).
			PrimaryKey("id").
			ForeignKeys(
				entsql.ForeignKey().Columns("chat_id").
					Reference(entsql.Reference().Table(chatsTable).Columns("id")).
					OnDelete("CASCADE"),
			),

		b.CreateTable(suggestionsTable).IfNotExists().
			Columns(
				entsql.Column("id").Type("varchar(36)").Attr("NOT NULL"),
				entsql.Column("chat_id").Type("varchar(36)").Attr("NOT NULL"),
				entsql.Column("kind").Type("text").Attr("NOT NULL"),
				entsql.Column("items").Type("text").Attr("NOT NULL"),
				entsql.Column("provider").Type("text").Attr("NOT NULL"),
				entsql.Column("model").Type("text").Attr("NOT NULL"),
				entsql.Column("created_at").Type(timeType(d.dialect)).Attr("NOT NULL"),
			).
			PrimaryKey("id").
			ForeignKeys(
				entsql.ForeignKey().Columns("chat_id").
					Reference(entsql.Reference().Table(chatsTable).Columns("id")).
					OnDelete("CASCADE"),
			),
	}

	for _, stmt := range stmts {
		query, args := stmt.Query()
		if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

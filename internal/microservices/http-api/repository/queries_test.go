package repository

import (
	"strings"
	"testing"

	"aniverse/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentPreloads(t *testing.T) {
	db := dryRunDB(t)
	stmt := withContext(db).Statement

	// Profile.User is where a reply notice gets its recipient address.
	for _, path := range []string{
		"Profile", "Profile.User", "Anime",
		"Parent", "Parent.Profile", "Parent.Profile.User", "Parent.Anime",
	} {
		assert.Contains(t, stmt.Preloads, path)
	}

	parsed := &gorm.Statement{DB: db}
	require.NoError(t, parsed.Parse(&models.Comment{}))
	profile, ok := parsed.Schema.Relationships.Relations["Profile"]
	require.True(t, ok)
	_, ok = profile.FieldSchema.Relationships.Relations["User"]
	assert.True(t, ok, "Profile.User must resolve to a relation")
}

func TestDeleteGenreCascade_RemovesTaggedAnimeFirst(t *testing.T) {
	db := dryRunDB(t)
	var deletes []string
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:capture_sql", func(tx *gorm.DB) {
		deletes = append(deletes, tx.Statement.SQL.String())
	}))

	// dry run affects no rows, so the genre reads as missing
	err := deleteGenreCascade(db, 4)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.Len(t, deletes, 2)
	assert.Equal(t, `DELETE FROM "anime" WHERE id IN (SELECT anime_id FROM "anime_genres" WHERE genre_id = $1)`, deletes[0])
	assert.Contains(t, deletes[1], `DELETE FROM "genres"`)
}

func TestRatingAggregateQueries(t *testing.T) {
	t.Run("Average", func(t *testing.T) {
		var agg struct {
			Average float64
			Total   int64
		}
		stmt := averageQuery(dryRunDB(t), 5).Find(&agg).Statement
		sql := stmt.SQL.String()

		assert.Contains(t, sql, "COALESCE(AVG(rate), 0) AS average")
		assert.Contains(t, sql, "COUNT(*) AS total")
		assert.Contains(t, sql, `FROM "ratings" WHERE anime_id = $1`)
		assert.Equal(t, []interface{}{int64(5)}, stmt.Vars)
	})

	t.Run("Distribution", func(t *testing.T) {
		var rows []RateCount
		stmt := distributionQuery(dryRunDB(t), 5).Find(&rows).Statement
		sql := stmt.SQL.String()

		assert.Contains(t, sql, "SELECT rate, COUNT(*) AS count")
		assert.Contains(t, sql, `FROM "ratings" WHERE anime_id = $1`)
		assert.Contains(t, sql, `GROUP BY "rate"`)
		assert.Contains(t, sql, "ORDER BY rate asc")
		assert.Less(t, strings.Index(sql, "GROUP BY"), strings.Index(sql, "ORDER BY"))
		assert.Equal(t, []interface{}{int64(5)}, stmt.Vars)
	})
}

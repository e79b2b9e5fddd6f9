package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

// VoteChannel is the LISTEN/NOTIFY channel the votes trigger publishes to.
const VoteChannel = "vote_changes"

const voteTriggerSQL = `
CREATE OR REPLACE FUNCTION notify_vote_change() RETURNS trigger AS $$
DECLARE
	r votes%ROWTYPE;
BEGIN
	IF TG_OP = 'DELETE' THEN
		r := OLD;
	ELSE
		r := NEW;
	END IF;
	PERFORM pg_notify('` + VoteChannel + `', json_build_object(
		'target_type', r.target_type,
		'target_id', r.target_id,
		'cart_id', r.cart_id
	)::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS votes_notify ON votes;
CREATE TRIGGER votes_notify
	AFTER INSERT OR UPDATE OR DELETE ON votes
	FOR EACH ROW EXECUTE FUNCTION notify_vote_change();
`

func (r *GormRepo) Migrate(ctx context.Context) error {
	db := r.DB.WithContext(ctx)
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Cart{},
		&models.Item{},
		&models.Vote{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(voteTriggerSQL).Error; err != nil {
			return fmt.Errorf("install vote trigger: %w", err)
		}
	}
	return nil
}

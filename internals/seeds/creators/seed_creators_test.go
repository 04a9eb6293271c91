package creators

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"sprout_backend/internals/databases/dbtest"
	"sprout_backend/internals/features/creators/profiles/model"
)

func TestSeedCreatorsFromJSON(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := SeedCreatorsFromJSON(ctx, db, "testdata/data_creators.json", log)
	is.NoErr(err)
	is.Equal(n, 2)

	var alice model.CreatorProfile
	is.NoErr(db.Where("username = ?", "alice").First(&alice).Error)
	is.Equal(model.Str(alice.StripeAccountID), "acct_demo_alice")
	is.Equal(model.Str(alice.UPIID), "alice@okaxis")

	var ravi model.CreatorProfile
	is.NoErr(db.Where("username = ?", "ravi_codes").First(&ravi).Error)
	is.Equal(model.Str(ravi.PaymentGateway), "razorpay")

	// rerun is a no-op
	n, err = SeedCreatorsFromJSON(ctx, db, "testdata/data_creators.json", log)
	is.NoErr(err)
	is.Equal(n, 0)
}

func TestSeedCreatorsRejectsBadRows(t *testing.T) {
	is := is.New(t)
	db := dbtest.Open(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	is.NoErr(os.WriteFile(path, []byte(`[{"username":"no spaces allowed"}]`), 0o600))

	_, err := SeedCreatorsFromJSON(context.Background(), db, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	is.True(err != nil)

	path = filepath.Join(t.TempDir(), "paypal.json")
	is.NoErr(os.WriteFile(path, []byte(`[{"username":"bob","payment_gateway":"paypal"}]`), 0o600))
	_, err = SeedCreatorsFromJSON(context.Background(), db, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	is.True(err != nil)

	_, err = SeedCreatorsFromJSON(context.Background(), db, filepath.Join(t.TempDir(), "missing.json"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	is.True(err != nil)
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/carpool/internal/test/dbcontainer"
	"github.com/momeni/carpool/internal/test/schema"
	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/adapter/config/vers"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/sch1v0"
	"github.com/momeni/carpool/pkg/adapter/hash/scram"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type MigrationUseCasesTestSuite struct {
	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Port int

	dbDir, cfgDir string
	hasher        *scram.Mechanism
}

func TestMigrationUseCasesTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	u, err := url.Parse(pg.ConnectionString())
	if ok := assert.NoError(t, err, "parsing DB container URL"); !ok {
		return
	}
	p, err := strconv.Atoi(u.Port())
	if ok := assert.NoError(t, err, "parsing DB container port"); !ok {
		return
	}
	dbDir, err := os.MkdirTemp("", "miguc-db")
	if ok := assert.NoError(t, err, "creating temp db dir"); !ok {
		return
	}
	defer func() {
		err := os.RemoveAll(dbDir)
		assert.NoError(t, err, "removing temp db dir")
	}()
	cfgDir, err := os.MkdirTemp("", "miguc-cfg")
	if ok := assert.NoError(t, err, "creating temp configs dir"); !ok {
		return
	}
	defer func() {
		err = os.RemoveAll(cfgDir)
		assert.NoError(t, err, "removing temp configs dir")
	}()
	migucts := &MigrationUseCasesTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
		Port: p,

		dbDir:  dbDir,
		cfgDir: cfgDir,
		hasher: scram.SHA256(),
	}
	t.Run("initialization", migucts.TestInitDB)
}

func (migucts *MigrationUseCasesTestSuite) TestInitDB(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		migucts.visitCfgDBVers(t, mode, migucts.testInitDB)
	}
}

func (migucts *MigrationUseCasesTestSuite) testInitDB(
	t *testing.T,
	s migrationuc.Settings,
	cfgVer, dbVer model.SemVer,
	name string,
) {
	t.Parallel()
	r := require.New(t)
	dev := strings.HasSuffix(name, "dev")
	migucts.initDBAndVerifySchema(t, r, s, dev, dbVer)

	// repeating the initialization must drop and recreate the schema
	migucts.initDBAndVerifySchema(t, r, s, dev, dbVer)

	b, err := yaml.Marshal(s)
	r.NoError(err, "marshaling settings; v=%v", cfgVer)
	cfgPath := filepath.Join(migucts.cfgDir, name+".yaml")
	err = os.WriteFile(cfgPath, b, 0o644)
	r.NoError(err, "writing settings; name=%q", name)
	data, err := os.ReadFile(cfgPath)
	r.NoError(err, "reading settings; name=%q", name)
	c, ok, err := cfg1.LoadFromDB(migucts.Ctx, data)
	r.NoError(err, "loading settings from DB")
	r.True(ok, "settings must be loaded")
	r.Equal(cfgVer, c.Version(), "config version")
	r.NotNil(c.Usecases.Estimator.AverageSpeed, "persisted speed")
	r.Equal(90.0, *c.Usecases.Estimator.AverageSpeed, "persisted speed")
}

func (migucts *MigrationUseCasesTestSuite) initDBAndVerifySchema(
	t *testing.T,
	r *require.Assertions,
	s migrationuc.Settings,
	dev bool,
	dbVer model.SemVer,
) {
	iduc := migrationuc.NewInitDB(s)
	if dev {
		err := iduc.InitDev(migucts.Ctx)
		r.NoError(err, "initializing database with dev suitable data")
	} else {
		err := iduc.InitProd(migucts.Ctx)
		r.NoError(err, "initializing database with prod suitable data")
	}
	verifySchema(
		migucts.Ctx, t, r, s, dbVer,
		func(ctx context.Context, v schema.Verifier, t *testing.T) {
			v.VerifySchema(ctx, t)
			if dev {
				v.VerifyDevData(ctx, t)
			} else {
				v.VerifyProdData(ctx, t)
			}
		},
	)
}

func verifySchema(
	ctx context.Context,
	t *testing.T,
	r *require.Assertions,
	s migrationuc.Settings,
	dbVer model.SemVer,
	verify func(ctx context.Context, v schema.Verifier, t *testing.T),
) {
	p, err := s.ConnectionPool(ctx, repo.NormalRole)
	r.NoError(err, "creating connection pool")
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		v, err := schema.NewVerifier(c, dbVer)
		if err != nil {
			return fmt.Errorf("NewVerifier(%v): %w", dbVer, err)
		}
		verify(ctx, v, t)
		return nil
	})
	r.NoError(err, "verifying database schema")
}

func (migucts *MigrationUseCasesTestSuite) visitCfgDBVers(
	t *testing.T,
	suffix string,
	visit func(
		t *testing.T,
		s migrationuc.Settings,
		cfgVer, dbVer model.SemVer,
		name string,
	),
) {
	a := assert.New(t)
	dbVer := model.SemVer{sch1v0.Major, sch1v0.Minor, 0}
	cfgVer := model.SemVer{cfg1.Major, cfg1.Minor, cfg1.Patch}
	d, name, rs := migucts.createEmptyDB(a, cfgVer, dbVer, suffix)
	speed, minSpeed, maxSpeed := 90.0, 30.0, 120.0
	c1 := &cfg1.Config{
		Database: cfg1.Database{
			Host:       "127.0.0.1",
			Port:       migucts.Port,
			Name:       name,
			PassDir:    d,
			RoleSuffix: rs,
		},
		Auth: cfg1.Auth{
			Secret: "a-test-secret-which-is-long-enough-for-hs256",
		},
		Usecases: cfg1.Usecases{
			Estimator: cfg1.Estimator{
				AverageSpeed:    &speed,
				MinAverageSpeed: &minSpeed,
				MaxAverageSpeed: &maxSpeed,
			},
		},
		Vers: vers.Config{
			Versions: vers.Versions{
				Database: dbVer,
				Config:   cfg1.Version,
			},
		},
	}
	err := c1.ValidateAndNormalize()
	a.NoError(err, "validating *cfg1.Config instance")
	s := settings.Adapter[*cfg1.Config, cfg1.Serializable]{Config: c1}
	t.Run(name, func(t *testing.T) {
		visit(t, s, cfgVer, dbVer, name)
	})
}

func (migucts *MigrationUseCasesTestSuite) createEmptyDB(
	a *assert.Assertions,
	cfgVer, dbVer model.SemVer, suffix string,
) (dbDir, dbName string, roleSuffix repo.Role) {
	name := fmt.Sprintf(
		"cfg%d_%d_%d_sch%d_%d_%d_%s",
		cfgVer[0], cfgVer[1], cfgVer[2],
		dbVer[0], dbVer[1], dbVer[2],
		suffix,
	)
	roleSuffix = repo.Role("_" + name)
	u := repo.AdminRole + roleSuffix
	p := migucts.randPass(a)
	err := migucts.Pool.Conn(
		migucts.Ctx, func(ctx context.Context, c repo.Conn) error {
			// The database and role creation DDL statements do not
			// support parameterized queries, nevertheless, the `name`
			// and `u` variables are trusted.
			if _, err := c.Exec(
				ctx, "CREATE DATABASE "+name,
			); err != nil {
				return fmt.Errorf("creating %q database: %w", name, err)
			}
			// The `p` password is hashed before being sent to DBMS, so
			// it may not leak even if it is recorded in some log file.
			hp, err := migucts.hasher.Hash(p, "", scram.UserIterations)
			if err != nil {
				return fmt.Errorf(
					"computing scram hash of password: %w", err,
				)
			}
			// SUPERUSER is required for CREATE EXTENSION
			if _, err := c.Exec(
				ctx,
				fmt.Sprintf(
					`CREATE ROLE %s
WITH SUPERUSER LOGIN PASSWORD '%s';
GRANT ALL PRIVILEGES ON DATABASE %s TO %[1]s`,
					u, hp, name,
				),
			); err != nil {
				return fmt.Errorf("creating %q role: %w", u, err)
			}
			return nil
		},
	)
	if !a.NoError(err, "main connection error") {
		a.FailNow("failed to get a connection with superuser role")
	}
	d := filepath.Join(migucts.dbDir, name)
	err = os.Mkdir(d, 0o700)
	if !a.NoError(err, "creating %q dir", d) {
		a.FailNow("cannot create top database dir")
	}
	line := fmt.Sprintf(
		"127.0.0.1:%d:%s:%s:%s\n", migucts.Port, name, u, p,
	)
	pgpass := filepath.Join(d, ".pgpass")
	err = os.WriteFile(pgpass, []byte(line), 0o600)
	if !a.NoError(err, "writing %q file", pgpass) {
		a.FailNow("cannot write .pgpass file")
	}
	return d, name, roleSuffix
}

func (migucts *MigrationUseCasesTestSuite) randPass(
	a *assert.Assertions,
) string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if !a.NoError(err, "generating a random password") {
		a.FailNow("cannot read random bytes")
	}
	return fmt.Sprintf("%x", b)
}

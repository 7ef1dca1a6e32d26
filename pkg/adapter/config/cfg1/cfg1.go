// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
package cfg1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/adapter/config/vers"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/carpool/pkg/adapter/hash"
	"github.com/momeni/carpool/pkg/adapter/hash/scram"
	"github.com/momeni/carpool/pkg/adapter/notify/amqp"
	"github.com/momeni/carpool/pkg/adapter/notify/lognotify"
	"github.com/momeni/carpool/pkg/adapter/restful/gin"
	"github.com/momeni/carpool/pkg/adapter/token/jwt"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	scrami "github.com/momeni/carpool/pkg/core/scram"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// EnvPrefix is the prefix of environment variables which may override
// the configuration file settings, e.g., CARPOOL_DB_HOST.
const EnvPrefix = "CARPOOL"

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // Passwords hashing and bearer tokens settings
	Broker   Broker   // Notifications message broker settings
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like carpool
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database authentication method name.
	// This method indicates how role passwords should be hashed and
	// stored in the database. Only scram-sha-1 and scram-sha-256
	// methods are supported. The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	hasher scrami.Hasher `yaml:"-"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s:%d/%s ConnectionPool: %w",
			c.Database.Host, c.Database.Port, c.Database.Name, err,
		)
	}
	return p, nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Config instance.
func (c *Config) ConnectionInfo() (dbName, host string, port int) {
	return c.Database.ConnectionInfo()
}

// NewSchemaRepo instantiates a fresh Schema repository which adds the
// configured role suffix to the role names.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SettingsPersister instantiates a repo.SettingsPersister for the
// database schema version of the `c` Config instance, wrapping the
// given `tx` transaction argument.
// Caller needs to serialize the mutable settings independently (see
// the settings.Adapter.Serialize and Config.Serializable methods).
func (c *Config) SettingsPersister(tx repo.Tx) (
	repo.SettingsPersister, error,
) {
	return migration.NewSettingsPersister(tx, c.SchemaVersion())
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data. The format
// of the created tables and their initial data rows are chosen based
// on the database schema version, as indicated by SchemaVersion method.
// The sample users passwords of the development data are hashed by the
// configured users password hasher.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	return migration.NewInitializer(tx, c.SchemaVersion(), c.Auth.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file, will use the change
// function in order to update the passwords of those roles in the
// database too. See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
// There is no direct dependency between the configuration file and
// database schema versions.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// Initially, the .pgpass file in the d.PassDir folder is checked
// which should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a database connection could be established, created pool and nil
// error will be returned. Otherwise, passwords might have been updated
// during a previous incomplete initialization. So the .pgpass.new
// file in the same d.PassDir folder is checked too. If a connection
// could be established successfully, the .pgpass.new will be moved to
// the .pgpass file, so the .pgpass.new file may be overwritten safely
// by the subsequent initialization operations.
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	log.Warn(
		ctx, "connection failed, trying the new pass-file",
		log.Err("error", err),
		slog.String("pass-file", path),
		slog.String("new-pass-file", newPath),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines which should conform with the pgpass
// files format.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// NewSchemaRepo instantiates a fresh Schema repository.
// ValidateAndNormalize method is expected to be called beforehand, so
// a role passwords hasher is created based on the `d.AuthMethod`.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file (i.e., .pgpass.new file
// in the `d.PassDir` directory), will use the `change` function in
// order to update the passwords of those `roles` in the database too.
// The `change` function argument should perform the update operation
// in a transaction which may or may not be committed when the
// RenewPasswords function returns. In case of a successful commitment,
// the returned finalizer should be called in order to move the
// temporary passwords file over the main passwords file (i.e., .pgpass
// file in the `d.PassDir` directory).
//
// The `d.RoleSuffix` will be appended to the given role names too.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	enc := base64.RawStdEncoding
	p := make([]byte, enc.EncodedLen(len(b))) // for each password
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	lines := make([]string, len(passwords))
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		enc.Encode(p, b)
		passwords[i] = string(p)
		r = r + d.RoleSuffix
		lines[i] = fmt.Sprintf("%s:%s:%s\n", prfx, r, passwords[i])
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	finalizer = func() error {
		return os.Rename(newPath, orgPath)
	}
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return finalizer, nil
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable. It also creates the role passwords
// hasher based on the AuthMethod.
func (d *Database) ValidateAndNormalize() error {
	switch am := d.AuthMethod; am {
	case "scram-sha-1":
		d.hasher = scram.SHA1()
	case "":
		d.AuthMethod = "scram-sha-256"
		fallthrough
	case "scram-sha-256":
		d.hasher = scram.SHA256()
	default:
		return fmt.Errorf(
			"unsupported database authentication method: %q", am,
		)
	}
	return nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized.
type Gin struct {
	Logger   *bool // Whether to register the request logger middleware
	Recovery *bool // Whether to register the recovery middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Auth contains the end-users authentication settings.
type Auth struct {
	// Secret is the HMAC key of the bearer tokens. If it is empty,
	// the SecretFile will be read instead.
	Secret     string `yaml:"jwt-secret,omitempty"`
	SecretFile string `yaml:"jwt-secret-file,omitempty"`

	// TokenTTL is the validity duration of the issued tokens.
	// It defaults to 24h.
	TokenTTL *settings.Duration `yaml:"token-ttl"`

	Issuer string `yaml:"issuer,omitempty"` // defaults to carpool

	// PasswordHashing is the users password hashing method which may
	// be scram-sha-256 (default), scram-sha-1, or bcrypt.
	// Verification of previously stored hashes works for all methods.
	PasswordHashing string `yaml:"password-hashing,omitempty"`

	hasher *hash.Dispatcher `yaml:"-"`
	tokens *jwt.Issuer      `yaml:"-"`
}

// ValidateAndNormalize fills the default values and instantiates the
// password hasher and token issuer.
func (a *Auth) ValidateAndNormalize() error {
	if a.Secret == "" && a.SecretFile != "" {
		b, err := os.ReadFile(a.SecretFile)
		if err != nil {
			return fmt.Errorf("reading jwt secret file: %w", err)
		}
		a.Secret = strings.TrimSpace(string(b))
	}
	if a.TokenTTL == nil {
		ttl := settings.Duration(24 * time.Hour)
		a.TokenTTL = &ttl
	}
	if a.Issuer == "" {
		a.Issuer = "carpool"
	}
	h, err := hash.New(a.PasswordHashing)
	if err != nil {
		return err
	}
	a.PasswordHashing = h.Method()
	ti, err := jwt.New(
		[]byte(a.Secret), time.Duration(*a.TokenTTL), a.Issuer,
	)
	if err != nil {
		return fmt.Errorf("creating token issuer: %w", err)
	}
	a.hasher, a.tokens = h, ti
	return nil
}

// Broker contains the AMQP message broker settings. Notifications are
// only logged when URL is empty.
type Broker struct {
	URL      string `yaml:"url,omitempty"`
	Exchange string `yaml:"exchange,omitempty"`
}

// NewNotifier connects to the configured broker and returns a notifier
// with its closer function.
func (b Broker) NewNotifier(
	ctx context.Context,
) (n repo.Notifier, closer func() error, err error) {
	if b.URL == "" {
		log.Info(ctx, "no broker is configured, logging notifications")
		return lognotify.Notifier{}, func() error { return nil }, nil
	}
	an, err := amqp.Dial(b.URL, b.Exchange)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp.Dial: %w", err)
	}
	return an, an.Close, nil
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	// Currency is the code of the local currency which is used for
	// prices and estimates. It defaults to TND.
	Currency string `yaml:"currency,omitempty"`

	Estimator Estimator // trip estimator settings
	Trips     Trips     // trips use cases settings
}

// Estimator contains the trip estimator settings.
// A nil value leaves the relevant setting uninitialized, so the
// estimator use case takes its default value. The minimum and
// maximum values are inclusive and a nil boundary means no limit.
type Estimator struct {
	AverageSpeed    *float64 `yaml:"average-speed"`
	MinAverageSpeed *float64 `yaml:"average-speed-minimum"`
	MaxAverageSpeed *float64 `yaml:"average-speed-maximum"`

	CostPerKm    *float64 `yaml:"cost-per-km"`
	MinCostPerKm *float64 `yaml:"cost-per-km-minimum"`
	MaxCostPerKm *float64 `yaml:"cost-per-km-maximum"`

	CurrencyRate    *float64 `yaml:"currency-rate"`
	MinCurrencyRate *float64 `yaml:"currency-rate-minimum"`
	MaxCurrencyRate *float64 `yaml:"currency-rate-maximum"`
}

// Trips contains the trips use cases settings.
type Trips struct {
	// HighPriceThreshold is the price per seat which causes a trip
	// validation warning.
	HighPriceThreshold *float64 `yaml:"high-price-threshold,omitempty"`
}

// env lists the settings which may be overridden by environment
// variables. Empty values keep the configuration file settings.
type env struct {
	DBHost    string `envconfig:"DB_HOST"`
	DBPort    int    `envconfig:"DB_PORT"`
	DBName    string `envconfig:"DB_NAME"`
	DBPassDir string `envconfig:"DB_PASS_DIR"`
	JWTSecret string `envconfig:"JWT_SECRET"`
	AMQPURL   string `envconfig:"AMQP_URL"`
}

// overrideByEnv replaces the configuration file settings with the
// CARPOOL_* environment variables (if any).
func (c *Config) overrideByEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("envconfig.Process: %w", err)
	}
	if e.DBHost != "" {
		c.Database.Host = e.DBHost
	}
	if e.DBPort != 0 {
		c.Database.Port = e.DBPort
	}
	if e.DBName != "" {
		c.Database.Name = e.DBName
	}
	if e.DBPassDir != "" {
		c.Database.PassDir = e.DBPassDir
	}
	if e.JWTSecret != "" {
		c.Auth.Secret = e.JWTSecret
	}
	if e.AMQPURL != "" {
		c.Broker.URL = e.AMQPURL
	}
	return nil
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. The CARPOOL_* environment variables override the loaded
// settings. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for example
// the major version which is reported by data settings must match
// with number 1 which is the major version of this config package).
//
// Settings which are stored in the database are not consulted here
// because they may change continually. See LoadFromDB.
func Load(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.overrideByEnv(); err != nil {
		return nil, err
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// LoadFromDB parses the given data byte slice and loads a Config
// instance (the first return value). It also tries to establish a
// connection to the corresponding database which its connection
// information are described in the loaded Config instance and
// overrides the mutable settings by their stored values.
// Stored values which violate the configured boundaries are adjusted
// and logged as warnings.
//
// If an error prevents the configuration settings to be updated using
// the database contents, but the loaded static settings were valid
// themselves, LoadFromDB still returns the Config instance.
// The second return value reports if the Config instance is or is not
// being returned (like an ok flag for the first return value).
func LoadFromDB(ctx context.Context, data []byte) (
	*Config, bool, error,
) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, false, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.overrideByEnv(); err != nil {
		return nil, false, err
	}
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return nil, false, fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	if _, err := migration.LatestVersion(c.SchemaVersion()); err != nil {
		return nil, false, fmt.Errorf(
			"unsupported database schema version: %w", err,
		)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return nil, false, fmt.Errorf("validating DB settings: %w", err)
	}
	dbErr := settings.LoadFromDB(ctx, c)
	if dbErr != nil {
		dbErr = fmt.Errorf("settings.LoadFromDB: %w", dbErr)
	}
	err := c.ValidateAndNormalize()
	switch {
	case err != nil && dbErr != nil:
		return nil, false, fmt.Errorf(
			"invalid config file (%w) could not be updated from DB: %w",
			err, dbErr,
		)
	case err == nil && dbErr != nil:
		return c, true, dbErr
	case err != nil && dbErr == nil:
		return nil, false, fmt.Errorf("validating configs: %w", err)
	}
	return c, true, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	if c.Usecases.Currency == "" {
		c.Usecases.Currency = "TND"
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Auth.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if t := c.Usecases.Trips.HighPriceThreshold; t != nil && *t <= 0 {
		return fmt.Errorf("high price threshold must be positive: %v", *t)
	}
	if err := c.verifyRanges(); err != nil {
		return fmt.Errorf("validating estimator settings: %w", err)
	}
	return nil
}

// verifyRanges checks the estimator settings against their boundary
// values, clamping the violating ones, and reports all violations as
// an *OutOfBoundsSettingsError. An invalid range (minimum greater than
// maximum) is reported with a higher priority as a plain error.
func (c *Config) verifyRanges() error {
	e := &c.Usecases.Estimator
	boundsErr, hasBoundsErr := &OutOfBoundsSettingsError{}, false
	for _, v := range []struct {
		name       string
		value      **float64
		minb, maxb *float64
		dst        **settings.OutOfRangeError[float64]
	}{
		{
			"average speed", &e.AverageSpeed,
			e.MinAverageSpeed, e.MaxAverageSpeed,
			&boundsErr.Estimator.AverageSpeed,
		},
		{
			"cost per km", &e.CostPerKm,
			e.MinCostPerKm, e.MaxCostPerKm,
			&boundsErr.Estimator.CostPerKm,
		},
		{
			"currency rate", &e.CurrencyRate,
			e.MinCurrencyRate, e.MaxCurrencyRate,
			&boundsErr.Estimator.CurrencyRate,
		},
	} {
		err := settings.VerifyRange(v.value, v.minb, v.maxb)
		switch {
		case err == nil:
		case err.InvalidRange:
			return fmt.Errorf("%s: %w", v.name, err)
		default:
			*v.dst = err
			hasBoundsErr = true
		}
	}
	if hasBoundsErr {
		return boundsErr
	}
	return nil
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The field names may be different for simplicity, but the
// yaml tag of fields are chosen to have consistent names after the
// serialization operation. The types of those fields are the same if
// their default serialization format is acceptable, otherwise, they
// will be serialized manually using the Marshal method and their
// target primitive types will be used in the Marshalled struct.
type Marshalled struct {
	Database Database
	Gin      Gin
	Auth     struct {
		Secret          string  `yaml:"jwt-secret,omitempty"`
		SecretFile      string  `yaml:"jwt-secret-file,omitempty"`
		TokenTTL        *string `yaml:"token-ttl,omitempty"`
		Issuer          string  `yaml:"issuer,omitempty"`
		PasswordHashing string  `yaml:"password-hashing,omitempty"`
	}
	Broker   Broker
	Usecases Usecases
	Vers     *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML computes an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. Any field which requires a
// specific serialization logic (e.g., durations and versions) is
// replaced by a primitive data type.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Database = c.Database
	m.Gin = c.Gin
	m.Auth.Secret = c.Auth.Secret
	m.Auth.SecretFile = c.Auth.SecretFile
	m.Auth.TokenTTL = c.Auth.TokenTTL.Marshal()
	m.Auth.Issuer = c.Auth.Issuer
	m.Auth.PasswordHashing = c.Auth.PasswordHashing
	m.Broker = c.Broker
	m.Usecases = c.Usecases
	m.Vers = c.Vers.Marshal()
	return m
}

// Clone creates a new instance of Config and initializes its fields
// based on the `c` fields. Pointers are renewed too, so changes in
// the returned Config instance and `c` stay independent.
// The password hasher and token issuer are shared since they are
// immutable.
func (c *Config) Clone() *Config {
	cc := &Config{
		Database: c.Database,
		Auth:     c.Auth,
		Broker:   c.Broker,
		Vers:     c.Vers,
	}
	cc.Usecases.Currency = c.Usecases.Currency
	settings.OverwriteUnconditionally(&cc.Gin.Logger, c.Gin.Logger)
	settings.OverwriteUnconditionally(&cc.Gin.Recovery, c.Gin.Recovery)
	settings.OverwriteUnconditionally(&cc.Auth.TokenTTL, c.Auth.TokenTTL)
	e, ce := &c.Usecases.Estimator, &cc.Usecases.Estimator
	for _, p := range [][2]**float64{
		{&ce.AverageSpeed, &e.AverageSpeed},
		{&ce.MinAverageSpeed, &e.MinAverageSpeed},
		{&ce.MaxAverageSpeed, &e.MaxAverageSpeed},
		{&ce.CostPerKm, &e.CostPerKm},
		{&ce.MinCostPerKm, &e.MinCostPerKm},
		{&ce.MaxCostPerKm, &e.MaxCostPerKm},
		{&ce.CurrencyRate, &e.CurrencyRate},
		{&ce.MinCurrencyRate, &e.MinCurrencyRate},
		{&ce.MaxCurrencyRate, &e.MaxCurrencyRate},
		{
			&cc.Usecases.Trips.HighPriceThreshold,
			&c.Usecases.Trips.HighPriceThreshold,
		},
	} {
		settings.OverwriteUnconditionally(p[0], *p[1])
	}
	return cc
}

// Version returns the semantic version of this Config struct contents
// which its major version is equal to 1, while its minor and patch
// versions may correspond to the Minor and Patch constants or may
// describe an older version.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}

// MajorVersion returns the major semantic version of this Config
// instance. In contrast to the Version method, it only depends on the
// Config type and so can be called with a nil instance too.
func (c *Config) MajorVersion() uint {
	return Major
}

// errNotValidated is returned by the use case factories when the
// Config was not validated and normalized.
var errNotValidated = errors.New("config is not validated")

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go-ext/component/storage/couchdb"
	"github.com/hyperledger/aries-framework-go-ext/component/storage/mongodb"
	"github.com/hyperledger/aries-framework-go-ext/component/storage/mysql"
	"github.com/hyperledger/aries-framework-go-ext/component/storage/postgresql"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storage/leveldb"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-auditproof-go/pkg/auditproof"
	"github.com/hyperledger/aries-auditproof-go/pkg/controller"
	ledgerapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/ledger"
	verifierapi "github.com/hyperledger/aries-auditproof-go/pkg/framework/aries/api/verifier"
	"github.com/hyperledger/aries-auditproof-go/pkg/ledger/cache"
	ledgerhttp "github.com/hyperledger/aries-auditproof-go/pkg/ledger/httpbinding"
	memledger "github.com/hyperledger/aries-auditproof-go/pkg/ledger/mem"
	verifierhttp "github.com/hyperledger/aries-auditproof-go/pkg/verifier/httpbinding"
)

const (
	// api host flag.
	agentHostFlagName      = "api-host"
	agentHostEnvKey        = "AUDITPROOF_API_HOST"
	agentHostFlagShorthand = "a"
	agentHostFlagUsage     = "Host Name:Port." +
		" Alternatively, this can be set with the following environment variable: " + agentHostEnvKey

	// api token flag.
	agentTokenFlagName      = "api-token"
	agentTokenEnvKey        = "AUDITPROOF_API_TOKEN" // nolint:gosec
	agentTokenFlagShorthand = "t"
	agentTokenFlagUsage     = "Check for bearer token in the authorization header (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentTokenEnvKey

	databaseTypeFlagName      = "database-type"
	databaseTypeEnvKey        = "AUDITPROOF_DATABASE_TYPE"
	databaseTypeFlagShorthand = "q"
	databaseTypeFlagUsage     = "The type of database to keep audit records in. " +
		"Supported options: mem, leveldb, couchdb, mongodb, mysql, postgresql. Defaults to mem if not set." +
		" Alternatively, this can be set with the following environment variable: " + databaseTypeEnvKey

	databaseURLFlagName      = "database-url"
	databaseURLEnvKey        = "AUDITPROOF_DATABASE_URL"
	databaseURLFlagShorthand = "v"
	databaseURLFlagUsage     = "The URL of the database. Not needed if using memstore." +
		" For leveldb, this is the path of the database directory." +
		" For CouchDB, include the username:password@ text if required." +
		" Alternatively, this can be set with the following environment variable: " + databaseURLEnvKey

	databasePrefixFlagName      = "database-prefix"
	databasePrefixEnvKey        = "AUDITPROOF_DATABASE_PREFIX"
	databasePrefixFlagShorthand = "u"
	databasePrefixFlagUsage     = "An optional prefix to be used when creating and retrieving underlying databases." +
		" Alternatively, this can be set with the following environment variable: " + databasePrefixEnvKey

	databaseTimeoutFlagName  = "database-timeout"
	databaseTimeoutFlagUsage = "Total time in seconds to wait until the db is available before giving up." +
		" Default: " + databaseTimeoutDefault + " seconds." +
		" Alternatively, this can be set with the following environment variable: " + databaseTimeoutEnvKey
	databaseTimeoutEnvKey  = "AUDITPROOF_DATABASE_TIMEOUT"
	databaseTimeoutDefault = "30"

	// ledger flags.
	ledgerTypeFlagName  = "ledger-type"
	ledgerTypeEnvKey    = "AUDITPROOF_LEDGER_TYPE"
	ledgerTypeFlagUsage = "The ledger artifacts are read from. Supported options: mem, http." +
		" Defaults to http if a ledger URL is set, otherwise mem." +
		" Alternatively, this can be set with the following environment variable: " + ledgerTypeEnvKey

	ledgerURLFlagName      = "ledger-url"
	ledgerURLEnvKey        = "AUDITPROOF_LEDGER_URL"
	ledgerURLFlagShorthand = "l"
	ledgerURLFlagUsage     = "URL of the HTTP ledger proxy. Required for ledger type http." +
		" Alternatively, this can be set with the following environment variable: " + ledgerURLEnvKey

	ledgerTokenFlagName  = "ledger-token"
	ledgerTokenEnvKey    = "AUDITPROOF_LEDGER_TOKEN" // nolint:gosec
	ledgerTokenFlagUsage = "Bearer token sent to the HTTP ledger proxy (optional)." +
		" Alternatively, this can be set with the following environment variable: " + ledgerTokenEnvKey

	ledgerTimeoutFlagName  = "ledger-timeout"
	ledgerTimeoutEnvKey    = "AUDITPROOF_LEDGER_TIMEOUT"
	ledgerTimeoutFlagUsage = "Timeout in seconds of a single ledger read. Defaults to no timeout." +
		" Alternatively, this can be set with the following environment variable: " + ledgerTimeoutEnvKey

	ledgerCacheSizeFlagName  = "ledger-cache-size"
	ledgerCacheSizeEnvKey    = "AUDITPROOF_LEDGER_CACHE_SIZE"
	ledgerCacheSizeFlagUsage = "Number of ledger artifacts kept in the read cache. 0 disables the cache (default)." +
		" Alternatively, this can be set with the following environment variable: " + ledgerCacheSizeEnvKey

	// verifier flags.
	verifierURLFlagName      = "verifier-url"
	verifierURLEnvKey        = "AUDITPROOF_VERIFIER_URL"
	verifierURLFlagShorthand = "r"
	verifierURLFlagUsage     = "URL of the proof verifier service." +
		" Alternatively, this can be set with the following environment variable: " + verifierURLEnvKey

	verifierTokenFlagName  = "verifier-token"
	verifierTokenEnvKey    = "AUDITPROOF_VERIFIER_TOKEN" // nolint:gosec
	verifierTokenFlagUsage = "Bearer token sent to the proof verifier service (optional)." +
		" Alternatively, this can be set with the following environment variable: " + verifierTokenEnvKey

	zeroTimestampFlagName  = "zero-timestamp"
	zeroTimestampEnvKey    = "AUDITPROOF_ZERO_TIMESTAMP"
	zeroTimestampFlagUsage = "Treat a timestamp of 0 as a real revocation timestamp." +
		" Possible values [true] [false]. Defaults to false if not set." +
		" Alternatively, this can be set with the following environment variable: " + zeroTimestampEnvKey

	// webhook url flag.
	agentWebhookFlagName      = "webhook-url"
	agentWebhookEnvKey        = "AUDITPROOF_WEBHOOK_URL"
	agentWebhookFlagShorthand = "w"
	agentWebhookFlagUsage     = "URL to send audit notifications to." +
		" This flag can be repeated, allowing for multiple listeners." +
		" Alternatively, this can be set with the following environment variable (in CSV format): " + agentWebhookEnvKey

	// log level.
	agentLogLevelFlagName  = "log-level"
	agentLogLevelEnvKey    = "AUDITPROOF_LOG_LEVEL"
	agentLogLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + agentLogLevelEnvKey

	agentTLSCertFileFlagName      = "tls-cert-file"
	agentTLSCertFileEnvKey        = "TLS_CERT_FILE"
	agentTLSCertFileFlagShorthand = "c"
	agentTLSCertFileFlagUsage     = "tls certificate file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSCertFileEnvKey

	agentTLSKeyFileFlagName      = "tls-key-file"
	agentTLSKeyFileEnvKey        = "TLS_KEY_FILE"
	agentTLSKeyFileFlagShorthand = "k"
	agentTLSKeyFileFlagUsage     = "tls key file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSKeyFileEnvKey

	databaseTypeMemOption        = "mem"
	databaseTypeLevelDBOption    = "leveldb"
	databaseTypeCouchDBOption    = "couchdb"
	databaseTypeMongoDBOption    = "mongodb"
	databaseTypeMYSQLDBOption    = "mysql"
	databaseTypePostgreSQLOption = "postgresql"

	ledgerTypeMemOption  = "mem"
	ledgerTypeHTTPOption = "http"
)

var (
	errMissingHost        = errors.New("host not provided")
	errMissingVerifierURL = errors.New("verifier URL not provided")
	logger                = log.New("aries-framework/auditproof-rest")
)

type AgentParameters struct {
	server                  server
	host, token             string
	tlsCertFile, tlsKeyFile string
	webhookURLs             []string
	dbParam                 *dbParam
	ledgerParam             *ledgerParam
	verifierURL             string
	verifierToken           string
	zeroTimestamp           bool
}

type dbParam struct {
	dbType  string
	url     string
	prefix  string
	timeout uint64
}

type ledgerParam struct {
	ledgerType string
	url        string
	token      string
	timeout    time.Duration
	cacheSize  int
}

// nolint:gochecknoglobals
var supportedStorageProviders = map[string]func(url, prefix string) (storage.Provider, error){
	databaseTypeMemOption: func(_, _ string) (storage.Provider, error) { // nolint:unparam
		return mem.NewProvider(), nil
	},
	databaseTypeLevelDBOption: func(path, _ string) (storage.Provider, error) { // nolint:unparam
		return leveldb.NewProvider(path), nil
	},
	databaseTypeCouchDBOption: func(url, prefix string) (storage.Provider, error) {
		return couchdb.NewProvider(url, couchdb.WithDBPrefix(prefix))
	},
	databaseTypeMongoDBOption: func(url, prefix string) (storage.Provider, error) {
		return mongodb.NewProvider(url, mongodb.WithDBPrefix(prefix))
	},
	databaseTypeMYSQLDBOption: func(url, prefix string) (storage.Provider, error) {
		return mysql.NewProvider(url, mysql.WithDBPrefix(prefix))
	},
	databaseTypePostgreSQLOption: func(url, prefix string) (storage.Provider, error) {
		return postgresql.NewProvider(url, postgresql.WithDBPrefix(prefix))
	},
}

type server interface {
	ListenAndServe(host string, router http.Handler, certFile, keyFile string) error
}

// HTTPServer represents an actual server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return http.ListenAndServeTLS(host, certFile, keyFile, router)
	}

	return http.ListenAndServe(host, router) // nolint:gosec
}

// agentProvider holds the collaborators of the audit proof controller.
type agentProvider struct {
	ledger   ledgerapi.Ledger
	verifier verifierapi.ProofVerifier
	storage  storage.Provider
}

func (p *agentProvider) Ledger() ledgerapi.Ledger {
	return p.ledger
}

func (p *agentProvider) ProofVerifier() verifierapi.ProofVerifier {
	return p.verifier
}

func (p *agentProvider) StorageProvider() storage.Provider {
	return p.storage
}

// Cmd returns the Cobra start command.
func Cmd(server server) (*cobra.Command, error) {
	startCmd := createStartCMD(server)

	createFlags(startCmd)

	return startCmd, nil
}

func createStartCMD(server server) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start an audit proof agent",
		Long:  `Start an agent verifying Indy presentations against the ledger`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := NewAgentParameters(server, cmd)
			if err != nil {
				return err
			}

			return startAgent(parameters)
		},
	}
}

// NewAgentParameters reads the agent parameters from the command flags and environment.
func NewAgentParameters(server server, cmd *cobra.Command) (*AgentParameters, error) { // nolint:funlen,gocyclo
	// log level
	logLevel, err := getUserSetVar(cmd, agentLogLevelFlagName, agentLogLevelEnvKey, true)
	if err != nil {
		return nil, err
	}

	err = setLogLevel(logLevel)
	if err != nil {
		return nil, err
	}

	host, err := getUserSetVar(cmd, agentHostFlagName, agentHostEnvKey, false)
	if err != nil {
		return nil, err
	}

	token, err := getUserSetVar(cmd, agentTokenFlagName, agentTokenEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbParam, err := getDBParam(cmd)
	if err != nil {
		return nil, err
	}

	ledgerParam, err := getLedgerParam(cmd)
	if err != nil {
		return nil, err
	}

	verifierURL, err := getUserSetVar(cmd, verifierURLFlagName, verifierURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	verifierToken, err := getUserSetVar(cmd, verifierTokenFlagName, verifierTokenEnvKey, true)
	if err != nil {
		return nil, err
	}

	zeroTimestamp, err := getBoolValue(cmd, zeroTimestampFlagName, zeroTimestampEnvKey)
	if err != nil {
		return nil, err
	}

	webhookURLs, err := getUserSetVars(cmd, agentWebhookFlagName, agentWebhookEnvKey, true)
	if err != nil {
		return nil, err
	}

	tlsCertFile, err := getUserSetVar(cmd, agentTLSCertFileFlagName, agentTLSCertFileEnvKey, true)
	if err != nil {
		return nil, err
	}

	tlsKeyFile, err := getUserSetVar(cmd, agentTLSKeyFileFlagName, agentTLSKeyFileEnvKey, true)
	if err != nil {
		return nil, err
	}

	return &AgentParameters{
		server:        server,
		host:          host,
		token:         token,
		dbParam:       dbParam,
		ledgerParam:   ledgerParam,
		verifierURL:   verifierURL,
		verifierToken: verifierToken,
		zeroTimestamp: zeroTimestamp,
		webhookURLs:   webhookURLs,
		tlsCertFile:   tlsCertFile,
		tlsKeyFile:    tlsKeyFile,
	}, nil
}

func getDBParam(cmd *cobra.Command) (*dbParam, error) {
	dbParam := &dbParam{}

	var err error

	dbParam.dbType, err = getUserSetVar(cmd, databaseTypeFlagName, databaseTypeEnvKey, true)
	if err != nil {
		return nil, err
	}

	if dbParam.dbType == "" {
		dbParam.dbType = databaseTypeMemOption
	}

	dbParam.url, err = getUserSetVar(cmd, databaseURLFlagName, databaseURLEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbParam.prefix, err = getUserSetVar(cmd, databasePrefixFlagName, databasePrefixEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbTimeout, err := getUserSetVar(cmd, databaseTimeoutFlagName, databaseTimeoutEnvKey, true)
	if err != nil {
		return nil, err
	}

	if dbTimeout == "" || dbTimeout == "0" {
		dbTimeout = databaseTimeoutDefault
	}

	t, err := strconv.Atoi(dbTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db timeout %s: %w", dbTimeout, err)
	}

	dbParam.timeout = uint64(t)

	return dbParam, nil
}

func getLedgerParam(cmd *cobra.Command) (*ledgerParam, error) {
	ledgerParam := &ledgerParam{}

	var err error

	ledgerParam.url, err = getUserSetVar(cmd, ledgerURLFlagName, ledgerURLEnvKey, true)
	if err != nil {
		return nil, err
	}

	ledgerParam.ledgerType, err = getUserSetVar(cmd, ledgerTypeFlagName, ledgerTypeEnvKey, true)
	if err != nil {
		return nil, err
	}

	if ledgerParam.ledgerType == "" {
		ledgerParam.ledgerType = ledgerTypeMemOption

		if ledgerParam.url != "" {
			ledgerParam.ledgerType = ledgerTypeHTTPOption
		}
	}

	ledgerParam.token, err = getUserSetVar(cmd, ledgerTokenFlagName, ledgerTokenEnvKey, true)
	if err != nil {
		return nil, err
	}

	timeout, err := getUserSetVar(cmd, ledgerTimeoutFlagName, ledgerTimeoutEnvKey, true)
	if err != nil {
		return nil, err
	}

	if timeout != "" {
		t, errConv := strconv.Atoi(timeout)
		if errConv != nil {
			return nil, fmt.Errorf("failed to parse ledger timeout %s: %w", timeout, errConv)
		}

		ledgerParam.timeout = time.Duration(t) * time.Second
	}

	cacheSize, err := getUserSetVar(cmd, ledgerCacheSizeFlagName, ledgerCacheSizeEnvKey, true)
	if err != nil {
		return nil, err
	}

	if cacheSize != "" {
		ledgerParam.cacheSize, err = strconv.Atoi(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ledger cache size %s: %w", cacheSize, err)
		}
	}

	return ledgerParam, nil
}

func getBoolValue(cmd *cobra.Command, flagName, envKey string) (bool, error) {
	v, err := getUserSetVar(cmd, flagName, envKey, true)
	if err != nil {
		return false, err
	}

	if v == "" {
		return false, nil
	}

	return strconv.ParseBool(v)
}

func createFlags(startCmd *cobra.Command) {
	// agent host flag
	startCmd.Flags().StringP(agentHostFlagName, agentHostFlagShorthand, "", agentHostFlagUsage)

	// agent token flag
	startCmd.Flags().StringP(agentTokenFlagName, agentTokenFlagShorthand, "", agentTokenFlagUsage)

	// db type
	startCmd.Flags().StringP(databaseTypeFlagName, databaseTypeFlagShorthand, "", databaseTypeFlagUsage)

	// db url
	startCmd.Flags().StringP(databaseURLFlagName, databaseURLFlagShorthand, "", databaseURLFlagUsage)

	// db prefix
	startCmd.Flags().StringP(databasePrefixFlagName, databasePrefixFlagShorthand, "", databasePrefixFlagUsage)

	// db timeout
	startCmd.Flags().StringP(databaseTimeoutFlagName, "", "", databaseTimeoutFlagUsage)

	// ledger
	startCmd.Flags().StringP(ledgerTypeFlagName, "", "", ledgerTypeFlagUsage)
	startCmd.Flags().StringP(ledgerURLFlagName, ledgerURLFlagShorthand, "", ledgerURLFlagUsage)
	startCmd.Flags().StringP(ledgerTokenFlagName, "", "", ledgerTokenFlagUsage)
	startCmd.Flags().StringP(ledgerTimeoutFlagName, "", "", ledgerTimeoutFlagUsage)
	startCmd.Flags().StringP(ledgerCacheSizeFlagName, "", "", ledgerCacheSizeFlagUsage)

	// verifier
	startCmd.Flags().StringP(verifierURLFlagName, verifierURLFlagShorthand, "", verifierURLFlagUsage)
	startCmd.Flags().StringP(verifierTokenFlagName, "", "", verifierTokenFlagUsage)

	// zero timestamp
	startCmd.Flags().StringP(zeroTimestampFlagName, "", "", zeroTimestampFlagUsage)

	// webhook url flag
	startCmd.Flags().StringSliceP(agentWebhookFlagName, agentWebhookFlagShorthand, []string{}, agentWebhookFlagUsage)

	// log level
	startCmd.Flags().StringP(agentLogLevelFlagName, "", "", agentLogLevelFlagUsage)

	// tls cert file
	startCmd.Flags().StringP(agentTLSCertFileFlagName,
		agentTLSCertFileFlagShorthand, "", agentTLSCertFileFlagUsage)

	// tls key file
	startCmd.Flags().StringP(agentTLSKeyFileFlagName,
		agentTLSKeyFileFlagShorthand, "", agentTLSKeyFileFlagUsage)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd != nil && cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getUserSetVars(cmd *cobra.Command, flagName, envKey string, isOptional bool) ([]string, error) {
	if cmd != nil && cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetStringSlice(flagName)
		if err != nil {
			return nil, fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	var values []string

	if isSet {
		values = strings.Split(value, ",")
	}

	if isOptional || isSet {
		return values, nil
	}

	return nil, fmt.Errorf(" %s not set. "+
		"It must be set via either command line or environment variable", flagName)
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}

func validateAuthorizationBearerToken(w http.ResponseWriter, r *http.Request, token string) bool {
	actHdr := r.Header.Get("Authorization")
	expHdr := "Bearer " + token

	if subtle.ConstantTimeCompare([]byte(actHdr), []byte(expHdr)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorised.\n")) // nolint:gosec,errcheck

		return false
	}

	return true
}

func authorizationMiddleware(token string) mux.MiddlewareFunc {
	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validateAuthorizationBearerToken(w, r, token) {
				next.ServeHTTP(w, r)
			}
		})
	}

	return middleware
}

func startAgent(parameters *AgentParameters) error {
	if parameters.host == "" {
		return errMissingHost
	}

	ctx, err := createAgentProvider(parameters)
	if err != nil {
		return err
	}

	var resolverOpts []auditproof.ResolverOption
	if parameters.zeroTimestamp {
		resolverOpts = append(resolverOpts, auditproof.WithZeroTimestamp())
	}

	// get all HTTP REST API handlers available for controller API
	handlers, err := controller.GetRESTHandlers(ctx, controller.WithWebhookURLs(parameters.webhookURLs...),
		controller.WithResolverOptions(resolverOpts...))
	if err != nil {
		return fmt.Errorf("failed to start audit proof agent on port [%s], failed to get rest service api :  %w",
			parameters.host, err)
	}

	router := mux.NewRouter()

	if parameters.token != "" {
		router.Use(authorizationMiddleware(parameters.token))
	}

	for _, handler := range handlers {
		router.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())
	}

	logger.Infof("Starting audit proof agent on host [%s]", parameters.host)
	// start server on given port and serve using given handlers
	handler := cors.New(
		cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		},
	).Handler(router)

	err = parameters.server.ListenAndServe(parameters.host, handler, parameters.tlsCertFile, parameters.tlsKeyFile)
	if err != nil {
		return fmt.Errorf("failed to start audit proof agent on port [%s], cause:  %w", parameters.host, err)
	}

	return nil
}

func createAgentProvider(parameters *AgentParameters) (*agentProvider, error) {
	storePro, err := createStoreProvider(parameters)
	if err != nil {
		return nil, err
	}

	ledger, err := createLedger(parameters.ledgerParam)
	if err != nil {
		return nil, fmt.Errorf("failed to start audit proof agent on port [%s], failed to create ledger : %w",
			parameters.host, err)
	}

	if parameters.verifierURL == "" {
		return nil, errMissingVerifierURL
	}

	var verifierOpts []verifierhttp.Option
	if parameters.verifierToken != "" {
		verifierOpts = append(verifierOpts, verifierhttp.WithAuthToken(parameters.verifierToken))
	}

	verifier, err := verifierhttp.New(parameters.verifierURL, verifierOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start audit proof agent on port [%s], failed to create verifier : %w",
			parameters.host, err)
	}

	return &agentProvider{ledger: ledger, verifier: verifier, storage: storePro}, nil
}

func createLedger(param *ledgerParam) (ledgerapi.Ledger, error) {
	if param == nil {
		param = &ledgerParam{ledgerType: ledgerTypeMemOption}
	}

	var ledger ledgerapi.Ledger

	switch param.ledgerType {
	case ledgerTypeMemOption:
		ledger = memledger.New()
	case ledgerTypeHTTPOption:
		var opts []ledgerhttp.Option

		if param.token != "" {
			opts = append(opts, ledgerhttp.WithAuthToken(param.token))
		}

		if param.timeout > 0 {
			opts = append(opts, ledgerhttp.WithTimeout(param.timeout))
		}

		l, err := ledgerhttp.New(param.url, opts...)
		if err != nil {
			return nil, err
		}

		ledger = l
	default:
		return nil, fmt.Errorf("ledger type [%s] not supported", param.ledgerType)
	}

	if param.cacheSize > 0 {
		ledger = cache.New(ledger, cache.WithSize(param.cacheSize))
	}

	return ledger, nil
}

func createStoreProvider(parameters *AgentParameters) (storage.Provider, error) {
	provider, supported := supportedStorageProviders[parameters.dbParam.dbType]
	if !supported {
		return nil, fmt.Errorf("database type not set to a valid type." +
			" run start --help to see the available options")
	}

	var store storage.Provider

	err := backoff.RetryNotify(
		func() error {
			var openErr error
			store, openErr = provider(parameters.dbParam.url, parameters.dbParam.prefix)
			return openErr
		},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), parameters.dbParam.timeout),
		func(retryErr error, t time.Duration) {
			logger.Warnf(
				"failed to connect to storage, will sleep for %s before trying again : %s\n",
				t, retryErr)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage at %s : %w", parameters.dbParam.url, err)
	}

	return store, nil
}

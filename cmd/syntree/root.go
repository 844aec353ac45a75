package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/syntree/db"
	"github.com/oxhq/syntree/models"
	"github.com/oxhq/syntree/schema"
)

var (
	schemaPath string
	dbPath     string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:           "syntree",
	Short:         "syntree - lossless syntax trees: parse, query, edit",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI after loading .env configuration.
func Execute() error {
	godotenv.Load()
	if dbPath == "" {
		dbPath = os.Getenv("SYNTREE_DB")
	}
	if os.Getenv("SYNTREE_DEBUG") != "" {
		debugMode = true
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "YAML schema file with keywords and semantic definitions")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database DSN for session history (default: $SYNTREE_DB)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output (default: $SYNTREE_DEBUG)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadSchema reads the --schema file, or returns nil for structural-only
// operation.
func loadSchema() (*schema.Schema, error) {
	if schemaPath == "" {
		return nil, nil
	}
	s, err := schema.Load(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", schemaPath, err)
	}
	return s, nil
}

// openDatabase connects to the configured DSN, or returns nil when no
// database is configured. Commands treat a nil handle as "don't record".
func openDatabase() (*gorm.DB, error) {
	if dbPath == "" {
		return nil, nil
	}
	return db.Connect(dbPath, debugMode)
}

// beginSession records the start of one recorded CLI invocation.
func beginSession(gdb *gorm.DB, rootPath string, sch *schema.Schema) (*models.Session, error) {
	if gdb == nil {
		return nil, nil
	}
	name := ""
	if sch != nil {
		name = sch.Name()
	}
	info, _ := json.Marshal(map[string]string{"tool": "syntree"})
	session := &models.Session{
		ID:         newID("sess"),
		SchemaName: name,
		RootPath:   rootPath,
		ClientInfo: datatypes.JSON(info),
	}
	if err := gdb.Create(session).Error; err != nil {
		return nil, fmt.Errorf("recording session: %w", err)
	}
	return session, nil
}

func newID(prefix string) string {
	var b [6]byte
	rand.Read(b[:])
	return prefix + "-" + hex.EncodeToString(b[:])
}

func digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

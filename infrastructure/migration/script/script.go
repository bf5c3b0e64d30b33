package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vfg2006/campaign-reporter/internal/config"
)

func setupLogger() {
	// Configura o logger para incluir data, hora e arquivo
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de migração...")
}

func tableExists(db *sql.DB, table string) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		log.Fatalf("ERRO ao verificar tabela %s: %v", table, err)
	}
	return exists
}

func createReportRuns(db *sql.DB) {
	log.Println("Criando tabela report_runs...")

	if tableExists(db, "report_runs") {
		log.Println("Tabela report_runs já existe")
		return
	}

	startTime := time.Now()
	_, err := db.Exec(`
		CREATE TABLE report_runs (
			id                 VARCHAR(32) PRIMARY KEY,
			mode               VARCHAR(16) NOT NULL,
			from_date          DATE NOT NULL,
			to_date            DATE NOT NULL,
			status             VARCHAR(16) NOT NULL,
			campaigns_total    INTEGER NOT NULL DEFAULT 0,
			campaigns_reported INTEGER NOT NULL DEFAULT 0,
			error              TEXT,
			started_at         TIMESTAMPTZ NOT NULL,
			finished_at        TIMESTAMPTZ
		)
	`)
	if err != nil {
		log.Fatalf("ERRO ao criar tabela report_runs: %v", err)
	}

	log.Printf("Tabela report_runs criada em %v", time.Since(startTime))
}

func addStartedAtIndex(db *sql.DB) {
	log.Println("Adicionando índice em report_runs.started_at...")

	_, err := db.Exec("CREATE INDEX IF NOT EXISTS report_runs_started_at_idx ON report_runs (started_at DESC)")
	if err != nil {
		log.Printf("ERRO ao criar índice: %v", err)
		return
	}

	log.Println("Índice report_runs_started_at_idx disponível")
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	dsn := cfg.Database.DSN
	if len(os.Args) > 1 {
		dsn = os.Args[1]
	}

	log.Println("Conectando ao banco de dados...")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ERRO ao verificar conexão com o banco: %v", err)
	}
	log.Println("Conexão com o banco de dados estabelecida com sucesso")

	createReportRuns(db)
	addStartedAtIndex(db)

	log.Println("Migração concluída")
}

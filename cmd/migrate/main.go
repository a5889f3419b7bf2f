package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"shelfmap/config"
	"shelfmap/internal/pkg/database"
)

func main() {
	// Carrega o .env se existir; sem ele valem as variáveis do ambiente.
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var migrationsDir string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Migrações do banco do shelfmap (goose)",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&migrationsDir, "dir", "./sql", "diretório com os arquivos de migração")

	for _, c := range []struct {
		name  string
		short string
		args  cobra.PositionalArgs
	}{
		{"up", "Aplica todas as migrações pendentes", cobra.NoArgs},
		{"up-to", "Aplica as migrações até a versão informada", cobra.ExactArgs(1)},
		{"down", "Desfaz a última migração", cobra.NoArgs},
		{"down-to", "Desfaz as migrações até a versão informada", cobra.ExactArgs(1)},
		{"redo", "Desfaz e reaplica a última migração", cobra.NoArgs},
		{"reset", "Desfaz todas as migrações", cobra.NoArgs},
		{"status", "Mostra o estado de cada migração", cobra.NoArgs},
		{"version", "Mostra a versão atual do banco", cobra.NoArgs},
	} {
		command := c.name
		root.AddCommand(&cobra.Command{
			Use:   command,
			Short: c.short,
			Args:  c.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(command, migrationsDir, args)
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "create NOME",
		Short: "Cria um novo arquivo de migração SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return goose.Create(nil, migrationsDir, args[0], "sql")
		},
	})
	return root
}

func run(command, migrationsDir string, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		return fmt.Errorf("goose: falha ao conectar ao banco: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetLogger(log.New(os.Stdout, "", 0))

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	fmt.Printf("goose %s concluído\n", command)
	return nil
}

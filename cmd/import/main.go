// Command import stores a Typeform export as the questionnaire of a law
// firm subdomain.
//
//	import -subdomain sanford -email intake@sanford.law -firm "Sanford Law" export.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"workchat-intake-backend/internal/config"
	"workchat-intake-backend/internal/db"
	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/repository"
	"workchat-intake-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config.xml", "path to the XML configuration")
	subdomain := flag.String("subdomain", "", "tenant subdomain")
	email := flag.String("email", "", "law firm email receiving submissions")
	firm := flag.String("firm", "", "law firm name")
	title := flag.String("title", "", "questionnaire title when the export has none")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] export.json\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read export: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := db.InitDBFromConfig(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	conn := db.GetDB()
	if err := conn.AutoMigrate(&model.Questionnaire{}, &model.Response{}, &model.ResponseFile{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	svc := service.NewQuestionnaireService(repository.NewQuestionnaireRepository(conn))
	q, err := svc.Import(service.ImportRequest{
		Subdomain:    *subdomain,
		LawFirmEmail: *email,
		LawFirmName:  *firm,
		Title:        *title,
		TypeformJSON: json.RawMessage(data),
	})
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	fmt.Printf("imported %q (%d fields) as %s.%s, id %s\n",
		q.Title, len(q.Config.Data().Fields), q.Subdomain, cfg.Tenant.BaseDomain, q.ID)
}

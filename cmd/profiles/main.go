// cmd/profiles/main.go
//
// プロフィールテーブルの保守用コマンドです。
//
//	profiles migrate        テーブルを作成/更新
//	profiles show <id>      保存済みプロフィールを JSON で表示
//	profiles reset <id>     プロフィールを削除 (統計・履歴も消えます)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"efi_checklist/internal/config"
	"efi_checklist/internal/model"
	"efi_checklist/internal/profile"
	"efi_checklist/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	configPath := os.Getenv("APP_CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs"
	}
	if err := config.LoadConfig(configPath); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, slog.Default())
	if err != nil {
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "migrate":
		if err := repository.AutoMigrate(db); err != nil {
			slog.Error("Migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println("profiles table is up to date")

	case "show":
		id := requireID()
		adapter := profile.NewAdapter(db, repository.NewGormProfileStore())
		state, err := adapter.Load(ctx, id)
		if err != nil {
			slog.Error("Failed to load profile", slog.String("catalyst_id", id), slog.Any("error", err))
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(state, "", "  ")
		fmt.Println(string(out))

	case "reset":
		id := requireID()
		res := db.WithContext(ctx).Where("profile_id = ?", id).Delete(&model.Profile{})
		if res.Error != nil {
			slog.Error("Failed to delete profile", slog.String("catalyst_id", id), slog.Any("error", res.Error))
			os.Exit(1)
		}
		fmt.Printf("deleted %d profile(s) for %q\n", res.RowsAffected, id)

	default:
		usage()
		os.Exit(2)
	}
}

func requireID() string {
	if len(os.Args) < 3 || os.Args[2] == "" {
		usage()
		os.Exit(2)
	}
	return os.Args[2]
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: profiles migrate | show <catalystId> | reset <catalystId>")
}

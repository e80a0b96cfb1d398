// 通知サービス呼び出し用のBearerトークンを発行するコマンド。
// JWT_SECRETを設定した通知サービスへリクエストするバックエンドが使用する。
//
//	JWT_SECRET=... notifytoken -sub task-backend -ttl 720h
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nao1215/taskpush/pkg/middleware"
)

func main() {
	subject := flag.String("sub", "task-backend", "トークンのsubject（呼び出し元サービス名）")
	ttl := flag.Duration("ttl", 24*time.Hour, "トークンの有効期間")
	flag.Parse()

	_ = godotenv.Load()

	token, err := middleware.GenerateJWT(os.Getenv("JWT_SECRET"), *subject, *ttl)
	if err != nil {
		log.Fatalf("トークンの発行に失敗: %v", err)
	}
	fmt.Println(token)
}

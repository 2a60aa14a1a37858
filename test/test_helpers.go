package test

import (
	"log"

	"github.com/joho/godotenv"
)

// setupTestEnvironment プロジェクトルートの.envを読み込む
// CI環境では環境変数が直接設定されるため、ファイルがなくてもエラーにしない
func setupTestEnvironment() {
	if err := godotenv.Load("../.env"); err != nil {
		log.Println("📝 .envファイルが見つかりません（環境変数を直接使用）")
	}
}

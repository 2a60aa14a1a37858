package audio

import (
	"log"
	"sync"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/repository"
)

// NarrationPlayer 端末側オーディオプレイヤーの代理ゲートウェイ
// 再生状態を追跡し、変化をリスナー経由でコアへ通知する
// 実際の音声出力はクライアント端末の責務であり、ここでは状態管理のみを行う
type NarrationPlayer struct {
	mu            sync.Mutex
	isPlaying     bool
	isPaused      bool
	currentStopID string
	currentRef    string
	listener      repository.PlaybackStateListener
}

// NewNarrationPlayer 新しいNarrationPlayerを作成する
func NewNarrationPlayer() *NarrationPlayer {
	return &NarrationPlayer{}
}

// SetStateListener 再生状態の変化を受け取るリスナーを登録する
func (p *NarrationPlayer) SetStateListener(listener repository.PlaybackStateListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = listener
}

// Play 指定スポットのナレーション再生を開始する
func (p *NarrationPlayer) Play(stopID, narrationRef string) error {
	p.mu.Lock()
	p.isPlaying = true
	p.isPaused = false
	p.currentStopID = stopID
	p.currentRef = narrationRef
	listener := p.listener
	p.mu.Unlock()

	log.Printf("🔊 ナレーション再生開始: スポット %s (%s)", stopID, narrationRef)
	// リスナーはセッション側のロックを取得するため、同期呼び出しすると
	// 到着処理（ロック保持中のPlay）と相互にデッドロックする
	if listener != nil {
		go listener(true, false)
	}
	return nil
}

// Pause 再生を一時停止する
func (p *NarrationPlayer) Pause() {
	p.mu.Lock()
	if !p.isPlaying {
		p.mu.Unlock()
		return
	}
	p.isPaused = true
	listener := p.listener
	p.mu.Unlock()

	log.Printf("⏸️ ナレーション一時停止")
	if listener != nil {
		go listener(true, true)
	}
}

// Resume 一時停止中の再生を再開する
func (p *NarrationPlayer) Resume() {
	p.mu.Lock()
	if !p.isPlaying || !p.isPaused {
		p.mu.Unlock()
		return
	}
	p.isPaused = false
	listener := p.listener
	p.mu.Unlock()

	log.Printf("▶️ ナレーション再開")
	if listener != nil {
		go listener(true, false)
	}
}

// Stop 再生を停止する
func (p *NarrationPlayer) Stop() {
	p.mu.Lock()
	if !p.isPlaying {
		p.mu.Unlock()
		return
	}
	p.isPlaying = false
	p.isPaused = false
	p.currentStopID = ""
	p.currentRef = ""
	listener := p.listener
	p.mu.Unlock()

	log.Printf("⏹️ ナレーション停止")
	if listener != nil {
		go listener(false, false)
	}
}

// State 現在の再生状態を返す
func (p *NarrationPlayer) State() (isPlaying, isPaused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlaying, p.isPaused
}

// CurrentStopID 再生中のスポットIDを返す（停止中は空文字）
func (p *NarrationPlayer) CurrentStopID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentStopID
}

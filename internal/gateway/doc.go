// Package gateway はプッシュ通知の配信基盤（Delivery Gateway）への接続を提供する。
//
// Firebase Cloud Messagingへ直接送信するFirebaseと、
// HTTPのプッシュ配信リレーへ送信するRelayの2種類の実装を持つ。
// どちらもdispatch.Gatewayを満たし、起動時に1つだけ生成して全リクエストで共有する。
package gateway

// Package tilestream содержит сгенерированные из proto/tilestream.proto
// сообщения и gRPC-заглушки сервиса ChunkQuery.
package tilestream

//go:generate go install tool
//go:generate protoc -I ../../../proto --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative tilestream.proto

package api

//go:generate swag init -g swagger.go -d ./,../alerts,../scanner,../../pkg/types -o docs

// @title Node Beacon API
// @version 1.0
// @description A node monitor for the Hive blockchain.
// @BasePath /api

package mocks

//go:generate mockgen -destination=./remote_service.go -package=mocks github.com/quantdesk/quantdesk/internal/client RemoteService

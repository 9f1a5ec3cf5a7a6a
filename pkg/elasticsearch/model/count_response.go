package model

type CountResponse struct {
	Count  int       `json:"count"`
	Shards ShardInfo `json:"_shards"`
}

package bootstrapper

const LogRecordIndexName = "log_record_index"

const RetentionPolicyName = "log_record_retention"

// RetentionPeriod is how long a persisted record lives before it is purged.
const RetentionPeriod = "30d"

// Every field referenced by the duplicate-query builder is mapped as an
// exact-match field; message is keyword because dedup requires exact match,
// with a text subfield for inspection queries.
var logRecordIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":     1,
		"number_of_replicas":   1,
		"index.lifecycle.name": RetentionPolicyName,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"created_at": map[string]interface{}{
				"type": "date",
			},
			"user": map[string]interface{}{
				"type": "keyword",
			},
			"domains": map[string]interface{}{
				"type": "keyword",
			},
			"message": map[string]interface{}{
				"type": "keyword",
				"fields": map[string]interface{}{
					"text": map[string]interface{}{
						"type": "text",
					},
				},
			},
			"err": map[string]interface{}{
				"properties": map[string]interface{}{
					"message": map[string]interface{}{
						"type": "text",
					},
					"stack": map[string]interface{}{
						"type":  "text",
						"index": false,
					},
					"code": map[string]interface{}{
						"type": "keyword",
					},
					"fields": map[string]interface{}{
						"type":    "object",
						"enabled": false,
					},
				},
			},
			"meta": map[string]interface{}{
				"properties": map[string]interface{}{
					"is_http": map[string]interface{}{
						"type": "boolean",
					},
					"level": map[string]interface{}{
						"type": "keyword",
					},
					"request": map[string]interface{}{
						"properties": map[string]interface{}{
							"id": map[string]interface{}{
								"type": "keyword",
							},
							"method": map[string]interface{}{
								"type": "keyword",
							},
							"url": map[string]interface{}{
								"type": "keyword",
							},
						},
					},
					"response": map[string]interface{}{
						"properties": map[string]interface{}{
							"status_code": map[string]interface{}{
								"type": "integer",
							},
							"headers": map[string]interface{}{
								"properties": map[string]interface{}{
									"content-type": map[string]interface{}{
										"type": "keyword",
									},
									"x-request-id": map[string]interface{}{
										"type": "keyword",
									},
								},
							},
						},
					},
					"user": map[string]interface{}{
						"properties": map[string]interface{}{
							"ip_address": map[string]interface{}{
								"type": "keyword",
							},
						},
					},
					"err": map[string]interface{}{
						"properties": map[string]interface{}{
							"message": map[string]interface{}{
								"type": "text",
							},
							"stack": map[string]interface{}{
								"type":  "text",
								"index": false,
							},
							"code": map[string]interface{}{
								"type": "keyword",
							},
						},
					},
				},
			},
		},
	},
}

var retentionPolicy = map[string]interface{}{
	"policy": map[string]interface{}{
		"phases": map[string]interface{}{
			"delete": map[string]interface{}{
				"min_age": RetentionPeriod,
				"actions": map[string]interface{}{
					"delete": map[string]interface{}{},
				},
			},
		},
	},
}

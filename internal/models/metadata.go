package models

// EntityMetadata describes one entity schema in the metadata catalog.
type EntityMetadata struct {
	ObjectTypeCode int    `json:"object_type_code" mapstructure:"type_code"`
	LogicalName    string `json:"logical_name" mapstructure:"logical_name"`
	DisplayName    string `json:"display_name,omitempty" mapstructure:"display_name"`
}
